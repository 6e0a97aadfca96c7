package sat

// TerminalResponse is the reply owed to the SIM for every proactive command.
type TerminalResponse struct {
	Owner         string      `json:"owner"`
	CommandID     int         `json:"id"`
	CommandNumber byte        `json:"number"`
	CommandType   CommandType `json:"type"`
	Qualifier     byte        `json:"qualifier"`
	Device        Devices     `json:"device"`
	Result        Result      `json:"result"`

	MeProblem      MeProblem      `json:"me_problem,omitempty"`
	NetworkProblem NetworkProblem `json:"network_problem,omitempty"`
	SsProblem      SsProblem      `json:"ss_problem,omitempty"`
	BipProblem     BipProblem     `json:"bip_problem,omitempty"`
	BrowserProblem BrowserProblem `json:"browser_problem,omitempty"`

	Item           *byte           `json:"item,omitempty"`
	Text           *Text           `json:"text,omitempty"`
	DateTime       []byte          `json:"date_time,omitempty"`
	Language       string          `json:"language,omitempty"`
	ChannelStatus  []ChannelStatus `json:"channel_status,omitempty"`
	Bearer         *Bearer         `json:"bearer,omitempty"`
	BufferSize     *uint16         `json:"buffer_size,omitempty"`
	ChannelData    []byte          `json:"channel_data,omitempty"`
	ChannelDataLen *byte           `json:"channel_data_len,omitempty"`
}

// newResponse addresses a response to the command's sender. A command id of
// -1 marks a response for a command that was never stored.
func newResponse(cmd *Command, id int, r Result) *TerminalResponse {
	return &TerminalResponse{
		Owner:         cmd.Owner,
		CommandID:     id,
		CommandNumber: cmd.Number,
		CommandType:   cmd.Type,
		Qualifier:     cmd.Qualifier,
		Device:        Devices{Src: DeviceMe, Dest: DeviceSim},
		Result:        r,
	}
}

// ExecResult is reported by whatever carried out a command on the
// terminal's behalf.
type ExecResult struct {
	Outcome        ExecOutcome    `json:"outcome"`
	MeProblem      MeProblem      `json:"me_problem,omitempty"`
	NetworkProblem NetworkProblem `json:"network_problem,omitempty"`
	SsProblem      SsProblem      `json:"ss_problem,omitempty"`
	BipProblem     BipProblem     `json:"bip_problem,omitempty"`
	BrowserProblem BrowserProblem `json:"browser_problem,omitempty"`

	// DCS and Data hold a returned SS/USSD string, or received channel data.
	DCS  byte   `json:"dcs,omitempty"`
	Data []byte `json:"data,omitempty"`

	Channel    *ChannelStatus  `json:"channel,omitempty"`
	Channels   []ChannelStatus `json:"channels,omitempty"`
	Bearer     *Bearer         `json:"bearer,omitempty"`
	BufferSize uint16          `json:"buffer_size,omitempty"`
	// Remaining is the data left to receive, or the free space left to send.
	Remaining int `json:"remaining,omitempty"`
}

func (c ConfirmType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConfirmType) UnmarshalText(b []byte) error {
	v, err := ParseConfirmType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (o ExecOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *ExecOutcome) UnmarshalText(b []byte) error {
	v, err := ParseExecOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// NotificationKind distinguishes command prompts from session teardown.
type NotificationKind string

const (
	KindCommand    NotificationKind = "command"
	KindSessionEnd NotificationKind = "session_end"
)

// Notification asks the UI to present a proactive command.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	CommandID int              `json:"id"`
	Owner     string           `json:"owner"`
	Type      CommandType      `json:"type"`

	Text         string `json:"text,omitempty"`
	Silent       bool   `json:"silent,omitempty"`
	Icon         *Icon  `json:"icon,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	HighPriority bool   `json:"high_priority,omitempty"`

	UserResponseRequired bool `json:"user_response_required,omitempty"`
	ImmediateResponse    bool `json:"immediate_response,omitempty"`

	Items         []Item `json:"items,omitempty"`
	DefaultItem   byte   `json:"default_item,omitempty"`
	HelpAvailable bool   `json:"help_available,omitempty"`

	InputType   InputType `json:"input_type,omitempty"`
	Alphabet    Alphabet  `json:"alphabet,omitempty"`
	HideInput   bool      `json:"hide_input,omitempty"`
	MinLength   byte      `json:"min_length,omitempty"`
	MaxLength   byte      `json:"max_length,omitempty"`
	DefaultText string    `json:"default_text,omitempty"`

	Tone      byte          `json:"tone,omitempty"`
	Number    string        `json:"number,omitempty"`
	Condition CallCondition `json:"condition,omitempty"`
	SsString  string        `json:"ss_string,omitempty"`
	URL       string        `json:"url,omitempty"`
	Mode      byte          `json:"mode,omitempty"`
	Files     []string      `json:"files,omitempty"`
	Language  string        `json:"language,omitempty"`

	Bearer     *Bearer `json:"bearer,omitempty"`
	BufferSize uint16  `json:"buffer_size,omitempty"`
	ChannelID  byte    `json:"channel_id,omitempty"`
}

// Dispatch asks an executor to carry out a command: place the call, launch
// the browser, open the channel, send the message, play the tone.
type Dispatch struct {
	CommandID int     `json:"id"`
	Command   Command `json:"command"`
}
