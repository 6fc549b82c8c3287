package models

// Keyboard is a reply keyboard shown to the user
type Keyboard struct {
	RowWidth int
	Buttons  []string
}

// InputMessage is a text message received from a user
type InputMessage struct {
	User *User
	Text string
}

// OutputMessage is a response sent back to a user. A nil Keyboard means
// any previously shown keyboard should be removed, unless KeepKeyboard is
// set.
type OutputMessage struct {
	User         *User
	Text         string
	Keyboard     *Keyboard
	KeepKeyboard bool
}

const paragraphSeparator = "\n\n"

// AddParagraphBefore prepends a paragraph to the message text
func (m *OutputMessage) AddParagraphBefore(paragraph string) {
	m.Text = paragraph + paragraphSeparator + m.Text
}
