package main

type HistoryEntry struct {
	Move      Move
	Player    PlayerColor
	ElapsedMs float64
	IsAi      bool
	Strategy  string
}

// MoveHistory is an append-only log, except for the search unmake path.
type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h *MoveHistory) pop() {
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
}

// Annotate fills the timing fields of the newest entry.
func (h *MoveHistory) Annotate(elapsedMs float64, isAi bool, strategy string) {
	if len(h.entries) == 0 {
		return
	}
	last := &h.entries[len(h.entries)-1]
	last.ElapsedMs = elapsedMs
	last.IsAi = isAi
	last.Strategy = strategy
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

func (h MoveHistory) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h MoveHistory) Clone() MoveHistory {
	return MoveHistory{entries: h.All()}
}
