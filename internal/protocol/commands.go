package protocol

import "encoding/json"

// Inbound command types.
const (
	CmdJoin            = "join"
	CmdCreateRoom      = "createRoom"
	CmdJoinRoom        = "joinRoom"
	CmdLeaveRoom       = "leaveRoom"
	CmdChangeMode      = "changeMode"
	CmdChat            = "chat"
	CmdTyping          = "typing"
	CmdStartTalk       = "startTalk"
	CmdStopTalk        = "stopTalk"
	CmdKillAllAudio    = "killAllAudio"
	CmdSignal          = "signal"
	CmdWebRTCSignal    = "webrtc-signal"
	CmdStartPoll       = "startPoll"
	CmdVote            = "vote"
	CmdEndPoll         = "endPoll"
	CmdCancelPoll      = "cancelPoll"
	CmdStartCircleSort = "startCircleSort"
	CmdSubmitCircle    = "submitCircleSort"
)

// TargetAll addresses every current member of the house.
const TargetAll = "ALL"

// Passthrough types are relayed verbatim (plus a server timestamp) to every
// other house member; the relay never inspects their payload.
var PassthroughTypes = map[string]bool{
	"drawPoints":      true,
	"strokeStart":     true,
	"strokeEnd":       true,
	"cursorMove":      true,
	"tafelStroke":     true,
	"tafelErase":      true,
	"tafelClear":      true,
	"tafelClearMine":  true,
	"userColorChange": true,
	"settingsUpdate":  true,
}

type JoinCmd struct {
	HouseCode string `json:"houseCode"`
	RoomName  string `json:"roomName"`
	SessionID string `json:"sessionId"`
}

type CreateRoomCmd struct {
	Name      string `json:"name"`
	Permanent bool   `json:"permanent"`
}

type JoinRoomCmd struct {
	Name string `json:"name"`
}

type ChangeModeCmd struct {
	Mode string `json:"mode"`
}

type ChatCmd struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type TypingCmd struct {
	IsTyping bool   `json:"isTyping"`
	Target   string `json:"target"`
}

type StartTalkCmd struct {
	Target string `json:"target"`
}

type SignalCmd struct {
	To     string          `json:"to"`
	Target string          `json:"target"`
	Signal json.RawMessage `json:"signal"`
}

// Recipient resolves the legacy "to"/"target" split: either field may carry
// the destination.
func (c SignalCmd) Recipient() string {
	if c.To != "" {
		return c.To
	}
	return c.Target
}

type StartPollCmd struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	ShowRealtime   bool     `json:"showRealtime"`
	Duration       int      `json:"duration"` // seconds, 0 = no auto end
	MultipleChoice bool     `json:"multipleChoice"`
}

type VoteCmd struct {
	OptionIndex int `json:"optionIndex"`
}

type StartCircleSortCmd struct {
	GridSize   int `json:"gridSize"`
	TimeLimit  int `json:"timeLimit"`
	Rounds     int `json:"rounds"`
	ColorCount int `json:"colorCount"`
}

type SubmitCircleSortCmd struct {
	CompletionTime float64 `json:"completionTime"`
	Clicks         int     `json:"clicks"`
	Score          int     `json:"score"`
	Completed      bool    `json:"completed"`
}
