package mail

type LeadMatchedEmailData struct {
	AdviserName string
	LeadName    string
	LeadTitle   string
	CompanyName string
	LinkedinURL string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
