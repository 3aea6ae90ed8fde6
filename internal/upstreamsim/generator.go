package upstreamsim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// recordingNamespace keys the deterministic recording ids
var recordingNamespace = uuid.MustParse("4f6c8d2e-3b1a-4e7f-9c5d-2a8b6e1f0c3d")

var (
	firstNames = []string{"Dana", "Luis", "Priya", "Marcus", "Chen", "Olivia", "Tariq", "Grace", "Mateo", "Aisha"}
	lastNames  = []string{"Reyes", "Nguyen", "Patel", "Okafor", "Schmidt", "Kowalski", "Haddad", "Brooks", "Ito", "Moreau"}
	industries = []string{"Construction", "Trucking", "Restaurants", "Retail", "Healthcare", "Manufacturing"}
	companies  = []string{"Summit", "Bluewater", "Ironclad", "Northstar", "Keystone", "Redwood", "Lakeside", "Granite"}
)

// simCall is one generated call, kept in upstream wire shape
type simCall struct {
	ID           int64
	LeadID       int64
	UserID       string
	User         string
	Status       string
	StatusName   string
	CallDate     time.Time
	CallLength   int
	CallType     string
	NumberDialed string
	PhoneNumber  string
	ListID       int
	FirstName    string
	LastName     string
	Comment      string
	RecordingURL string
	Pause        int
	Wait         int
	Wrap         int
}

// seedFor derives a stable per-key seed
func seedFor(seed int64, key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return seed ^ int64(h.Sum64())
}

// generateDay builds the calls for one calendar day. The same seed and day
// always produce the same calls.
func (s *Server) generateDay(day time.Time) []simCall {
	rng := rand.New(rand.NewSource(seedFor(s.opts.Seed, day.Format(dateLayout))))
	dayIndex := day.Unix() / 86400

	calls := make([]simCall, 0, len(s.opts.Agents)*s.opts.CallsPerAgent)
	for _, agent := range s.opts.Agents {
		n := s.opts.CallsPerAgent/2 + rng.Intn(s.opts.CallsPerAgent+1)
		for i := 0; i < n; i++ {
			disp := s.opts.Dispositions[rng.Intn(len(s.opts.Dispositions))]
			leadID := leadBase + rng.Int63n(int64(s.opts.Leads))
			lead := s.lead(leadID)
			id := dayIndex*1_000_000 + int64(len(calls)) + 1

			call := simCall{
				ID:           id,
				LeadID:       leadID,
				UserID:       agent.ID,
				User:         agent.Name,
				Status:       disp.Code,
				StatusName:   disp.Name,
				CallDate:     day.Add(time.Duration(8*3600+rng.Intn(10*3600)) * time.Second),
				CallLength:   rng.Intn(900),
				CallType:     "OUTBOUND",
				NumberDialed: lead.PhoneNumber,
				PhoneNumber:  lead.PhoneNumber,
				ListID:       lead.ListID,
				FirstName:    lead.FirstName,
				LastName:     lead.LastName,
				Pause:        rng.Intn(120),
				Wait:         rng.Intn(90),
				Wrap:         rng.Intn(60),
			}
			if call.CallLength > 20 {
				call.RecordingURL = fmt.Sprintf("https://recordings.sim.local/%s.mp3",
					uuid.NewSHA1(recordingNamespace, []byte(fmt.Sprint(id))))
			}
			if rng.Intn(4) == 0 {
				call.Comment = "follow up next week"
			}
			calls = append(calls, call)
		}
	}
	return calls
}

func (c *simCall) wire() map[string]any {
	rec := map[string]any{
		"id":            c.ID,
		"lead_id":       fmt.Sprint(c.LeadID),
		"list_id":       c.ListID,
		"user_id":       c.UserID,
		"user":          c.User,
		"status":        c.Status,
		"status_name":   c.StatusName,
		"call_date":     c.CallDate.Format(dateTimeLayout),
		"call_length":   fmt.Sprint(c.CallLength),
		"call_type":     c.CallType,
		"number_dialed": c.NumberDialed,
		"phone_number":  c.PhoneNumber,
		"first_name":    c.FirstName,
		"last_name":     c.LastName,
		"agent_comment": c.Comment,
	}
	if c.RecordingURL != "" {
		rec["recording"] = []map[string]string{{"public_url": c.RecordingURL, "src": c.RecordingURL}}
	} else {
		rec["recording"] = []any{}
	}
	return rec
}

// simLead is a generated lead; its fields depend only on the seed and id
type simLead struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	ListID      int
	Status      types.Disposition
	Owner       types.AgentRef
	CreatedAt   time.Time
	Company     string
	Industry    string
	Revenue     int
}

func (s *Server) lead(id int64) simLead {
	rng := rand.New(rand.NewSource(seedFor(s.opts.Seed, fmt.Sprintf("lead-%d", id))))

	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	return simLead{
		ID:          id,
		FirstName:   first,
		LastName:    last,
		Email:       fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), id%1000),
		PhoneNumber: fmt.Sprintf("555%07d", rng.Intn(10_000_000)),
		ListID:      1000 + rng.Intn(5),
		Status:      s.opts.Dispositions[rng.Intn(len(s.opts.Dispositions))],
		Owner:       s.opts.Agents[rng.Intn(len(s.opts.Agents))],
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(rng.Intn(365*24)) * time.Hour),
		Company:     companies[rng.Intn(len(companies))] + " " + industries[rng.Intn(len(industries))],
		Industry:    industries[rng.Intn(len(industries))],
		Revenue:     10_000 + rng.Intn(490_000),
	}
}

func (l *simLead) wire() map[string]any {
	return map[string]any{
		"id":                    l.ID,
		"first_name":            l.FirstName,
		"last_name":             l.LastName,
		"email":                 l.Email,
		"phone_number":          l.PhoneNumber,
		"list_id":               l.ListID,
		"directory_name":        fmt.Sprintf("Sim List %d", l.ListID),
		"status":                l.Status.Code,
		"status_name":           l.Status.Name,
		"user_id":               l.Owner.ID,
		"owner_name":            l.Owner.Name,
		"created_at":            l.CreatedAt.Format(dateTimeLayout),
		"modified_at":           l.CreatedAt.Add(48 * time.Hour).Format(dateTimeLayout),
		"last_called":           nil,
		"last_modified_by_name": l.Owner.Name,
		"field_4":               l.Company,
		"field_29":              l.Industry,
		"field_94":              fmt.Sprint(l.Revenue),
		"field_1":               "",
	}
}

// hms renders seconds as the upstream "HH:MM:SS" duration text
func hms(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
