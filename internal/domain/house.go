package domain

const MaxHouseCodeLen = 16

type HouseCode string

// Mode gates client-side talk affordances; the relay only enforces who may
// change it.
type Mode string

const (
	ModeFree          Mode = "free"
	ModeAnnouncement  Mode = "announcement"
	ModeReturnChannel Mode = "returnChannel"
)

// DefaultMode is what a freshly created house starts in.
const DefaultMode = ModeAnnouncement

func ValidMode(m Mode) bool {
	switch m {
	case ModeFree, ModeAnnouncement, ModeReturnChannel:
		return true
	}
	return false
}

// House is the top-level namespace meta. Membership and activity state live
// in the coordination core, not here.
type House struct {
	Code HouseCode `json:"code"`
	Mode Mode      `json:"mode"`
}
