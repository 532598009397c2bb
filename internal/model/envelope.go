package model

// Envelope is the response shape shared by every account endpoint. Success is
// signalled only by the Success field; the HTTP status is always 200.
type Envelope struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	UserData *AccountResponse `json:"userData,omitempty"`
	User     *AccountResponse `json:"user,omitempty"`
	Token    string           `json:"token,omitempty"`
}

// Failure builds an unsuccessful envelope carrying msg.
func Failure(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}
