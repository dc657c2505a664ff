package domain

// UserCommand is the envelope posted to the command endpoint.
type UserCommand struct {
	Cmd     string `json:"cmd" validate:"required,max=32"`
	Args    string `json:"args"`
	History []Turn `json:"history"`
}

// CmdResponse is the uniform reply for every command. Error carries the
// failure message when a command was rejected; Data is the rendered
// result otherwise, optionally markdown.
type CmdResponse struct {
	Data     string `json:"data"`
	Markdown bool   `json:"markdown"`
	Error    string `json:"error"`
}
