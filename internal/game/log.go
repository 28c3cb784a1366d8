package game

// LogEntry is one line of the hand's action log. Entries are append-only
// with a strictly increasing sequence number and are written only by the
// authoritative peer; the joiner just renders them.
type LogEntry struct {
	Seq     int64  `json:"seq"`
	Street  Street `json:"street"`
	Seat    Seat   `json:"seat"`
	Kind    string `json:"kind"`
	Amount  Chips  `json:"amount,omitempty"`
	Message string `json:"message"`
}

func (h *Hand) appendLog(seat Seat, kind string, amount Chips, message string) {
	h.nextSeq++
	h.Log = append(h.Log, LogEntry{
		Seq:     h.nextSeq,
		Street:  h.Street,
		Seat:    seat,
		Kind:    kind,
		Amount:  amount,
		Message: message,
	})
}

// LastSeq returns the sequence number of the newest log entry.
func (h *Hand) LastSeq() int64 {
	return h.nextSeq
}
