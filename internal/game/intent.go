package game

import "fmt"

// Intent is a discrete player request, mapped 1:1 from key presses by the
// input collaborator.
type Intent int

const (
	IntentNone Intent = iota
	IntentMoveLeft
	IntentMoveRight
	IntentSoftDrop
	IntentRotateCW
	IntentHardDrop
	IntentHold
)

var intentNames = map[Intent]string{
	IntentNone:      "none",
	IntentMoveLeft:  "move_left",
	IntentMoveRight: "move_right",
	IntentSoftDrop:  "soft_drop",
	IntentRotateCW:  "rotate_cw",
	IntentHardDrop:  "hard_drop",
	IntentHold:      "hold",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

func ParseIntent(s string) (Intent, error) {
	for i, name := range intentNames {
		if name == s {
			return i, nil
		}
	}
	return IntentNone, fmt.Errorf("unknown intent %q", s)
}

func (i Intent) MarshalText() ([]byte, error) {
	if _, ok := intentNames[i]; !ok {
		return nil, fmt.Errorf("invalid intent %d", int(i))
	}
	return []byte(i.String()), nil
}

func (i *Intent) UnmarshalText(text []byte) error {
	parsed, err := ParseIntent(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
