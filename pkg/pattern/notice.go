package pattern

// Notice levels.
const (
	NoticeInfo  = "info"
	NoticeWarn  = "warning"
	NoticeError = "error"
)

// Notice is a one-line banner: loading and readiness messages, fetch errors.
type Notice struct {
	Level string
	Text  string
}

func (n *Notice) Type() PatternType { return PatternTypeNotice }
