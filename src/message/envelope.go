package message

// Envelope wraps a body with its source and destination node.
type Envelope struct {
	Src  string `codec:"src"`
	Dest string `codec:"dest"`
	Body Body   `codec:"body"`
}

// Reply returns an envelope addressed back to the sender of orig.
func Reply(orig Envelope, body Body) Envelope {
	return Envelope{
		Src:  orig.Dest,
		Dest: orig.Src,
		Body: body,
	}
}

// Kind returns the tag of the envelope's body, or the empty string if it has
// none.
func (e Envelope) Kind() string {
	if e.Body == nil {
		return ""
	}
	return e.Body.Kind()
}

// IsLoopback reports whether the envelope was addressed by a node to itself.
func (e Envelope) IsLoopback() bool {
	return e.Src != "" && e.Src == e.Dest
}
