package enums

// NotificationLevel classifies a user-facing notification event.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// String implements fmt.Stringer.
func (l NotificationLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known NotificationLevel.
func (l NotificationLevel) IsValid() bool {
	return l == LevelSuccess || l == LevelError
}
