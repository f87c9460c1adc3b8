package tui

// Session lifecycle messages. The session itself holds the conversation, so
// these only signal that it changed; the model re-reads session.Messages().
type historyLoadedMsg struct{}

type historyClearedMsg struct {
	err error
}

// botRepliesMsg signals that one send finished.
type botRepliesMsg struct{}
