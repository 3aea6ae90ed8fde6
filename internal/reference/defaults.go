package reference

import "github.com/Andrew-LILO/agent-performance-dashboard/internal/types"

var defaultAgents = []types.AgentRef{
	{ID: "1240307", Name: "John Blott"},
	{ID: "1238357", Name: "Mac Castro"},
	{ID: "1229692", Name: "Mia Magusara"},
	{ID: "1229376", Name: "Alex Longakit"},
	{ID: "1229373", Name: "Margaux Lei"},
	{ID: "1231086", Name: "Kobe Navarro"},
	{ID: "1229913", Name: "Mark Vallida"},
	{ID: "1229911", Name: "Bradon Teves"},
	{ID: "1229910", Name: "Sam Concepcion"},
	{ID: "1229909", Name: "James Abueva"},
	{ID: "1229908", Name: "John Taboada"},
	{ID: "1229383", Name: "Grace Toledo"},
	{ID: "1229382", Name: "Jazza Epe"},
	{ID: "1229381", Name: "Mary Birondo"},
	{ID: "1229379", Name: "Jean Canillo"},
	{ID: "1229378", Name: "Aaron Villafuerte"},
	{ID: "1229377", Name: "Louiela Coming"},
	{ID: "1229375", Name: "Ali Camoro"},
	{ID: "1231088", Name: "Jacob Bacalso"},
	{ID: "1229912", Name: "Anne Camay"},
	{ID: "1229384", Name: "Joy Mae"},
	{ID: "1231089", Name: "Faith Ilan"},
	{ID: "1229914", Name: "Jacky Ohagan"},
	{ID: "1231087", Name: "Nina Diaz"},
}

var defaultDispositions = []types.Disposition{
	{Code: "QLSENT", Name: "MQS - Qualified / Money Now"},
	{Code: "MQAPP", Name: "MQS - Qualified / Appointment Set"},
	{Code: "MQBUSY", Name: "MQS - Busy / Callback Requested"},
	{Code: "MQFCB", Name: "MQS - Future Call Back"},
	{Code: "WXFER", Name: "MQS - Warm Transfer Complete"},
	{Code: "A", Name: "No Answer / Answering Machine"},
	{Code: "BL", Name: "Bad Lead"},
	{Code: "BUSY", Name: "Busy"},
	{Code: "BKMQS", Name: "Chaser - Send Back To MQS"},
	{Code: "CNNT", Name: "Connected Assign Lead"},
	{Code: "CHAPP", Name: "Chasers - Qualified / Appt Set"},
	{Code: "CHBUSY", Name: "Chasers - Busy Call back Requested"},
	{Code: "CHFCB", Name: "Chasers - Future Call Back"},
	{Code: "CHN", Name: "Chasers - No Answer"},
	{Code: "CHNOTA", Name: "Chasers - Gatekeeper Said Not Available"},
	{Code: "CSLAM", Name: "Chasers - Quick Slam"},
	{Code: "CDROP", Name: "Call Dropped"},
	{Code: "DAIR", Name: "Dead Air"},
	{Code: "HU", Name: "Hang Up"},
	{Code: "HUD3WC", Name: "Hung Up During 3 Way Call"},
	{Code: "IDC", Name: "Idle Dead Call"},
	{Code: "INST", Name: "Interested"},
	{Code: "CB", Name: "Callback"},
	{Code: "MQN", Name: "MQS - No Answer"},
	{Code: "MQNOTA", Name: "MQS - Gatekeeper Said Not Available"},
	{Code: "MSLAM", Name: "MQS - Quick Slam"},
	{Code: "N", Name: "No Answer"},
	{Code: "NI", Name: "Not Interested"},
	{Code: "NOTA", Name: "Not Available"},
	{Code: "NQ", Name: "Not Qualified"},
	{Code: "QHNI", Name: "Quick Hang Up Not Interested"},
	{Code: "SALE", Name: "Sale"},
	{Code: "WRONG", Name: "Wrong Number"},

	// System dispositions
	{Code: "NEW", Name: "New Lead"},
	{Code: "QUEUE", Name: "Call in Progress"},
	{Code: "INCALL", Name: "Lead In Call"},
	{Code: "DROP", Name: "Agent Not Available In Campaign"},
	{Code: "AA", Name: "Answering Machine Detected"},
	{Code: "DC", Name: "Disconnected Number"},
	{Code: "DNC", Name: "Do NOT Call"},
	{Code: "XFER", Name: "Call Transfer In Progress"},
}
