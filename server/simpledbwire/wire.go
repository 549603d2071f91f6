package simpledbwire

import "github.com/tuannm99/simpledb/internal/shell"

// Request carries one shell command line.
type Request struct {
	ID      uint64 `json:"id"`
	Command string `json:"command"`
}

// Response is the answer for a request ID.
type Response struct {
	ID    uint64       `json:"id"`
	Reply *shell.Reply `json:"reply,omitempty"`
	Error string       `json:"error,omitempty"`
}
