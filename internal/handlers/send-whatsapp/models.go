package sendwhatsapp

type Input struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	Language    string `json:"language"`
}

type Output struct {
	Success bool   `json:"success"`
	SID     string `json:"sid"`
	Channel string `json:"channel"`
}
