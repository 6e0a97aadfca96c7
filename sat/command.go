package sat

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Header is the part of a proactive command needed to address the terminal
// response: command details plus device identities.
type Header struct {
	Owner     string      `json:"owner"`
	Number    byte        `json:"number"`
	Type      CommandType `json:"type"`
	Qualifier byte        `json:"qualifier"`
	Device    Devices     `json:"device"`
}

// Command is a proactive command as decoded by the SIM core.
type Command struct {
	Header
	Params Params `json:"params"`
}

// Params is implemented by each command variant.
type Params interface {
	CommandType() CommandType
	presentation() Presentation
}

// Presentation holds the optional display attributes common to most variants.
type Presentation struct {
	Icon     *Icon  `json:"icon,omitempty"`
	TextAttr []byte `json:"text_attr,omitempty"`
}

func (p Presentation) presentation() Presentation { return p }

// Icon identifier. A self-explanatory icon replaces the text it accompanies.
type Icon struct {
	ID              byte `json:"id"`
	SelfExplanatory bool `json:"self_explanatory"`
}

// TimeUnit of a Duration.
type TimeUnit byte

const (
	Minutes TimeUnit = 0x00
	Seconds TimeUnit = 0x01
	Tenths  TimeUnit = 0x02
)

// Duration as carried by the duration TLV.
type Duration struct {
	Unit     TimeUnit `json:"unit"`
	Interval byte     `json:"interval"`
}

// Milliseconds converts the duration. Reserved units count as zero.
func (d *Duration) Milliseconds() int {
	if d == nil {
		return 0
	}
	switch d.Unit {
	case Minutes:
		return int(d.Interval) * 60000
	case Seconds:
		return int(d.Interval) * 1000
	case Tenths:
		return int(d.Interval) * 100
	}
	return 0
}

// Item of a menu.
type Item struct {
	ID   byte   `json:"id"`
	Text string `json:"text"`
}

// ClearType of DISPLAY TEXT.
type ClearType byte

const (
	AutoClearAfterDelay ClearType = 0
	WaitForUserToClear  ClearType = 1
)

type DisplayTextParams struct {
	Presentation
	Text              string    `json:"text"`
	HighPriority      bool      `json:"high_priority"`
	ClearType         ClearType `json:"clear_type"`
	ImmediateResponse bool      `json:"immediate_response"`
	Duration          *Duration `json:"duration,omitempty"`
}

type SetupMenuParams struct {
	Presentation
	Title         string `json:"title"`
	Items         []Item `json:"items"`
	HelpAvailable bool   `json:"help_available"`
	SoftKey       bool   `json:"soft_key"`
}

type SelectItemParams struct {
	Presentation
	Title         string `json:"title"`
	Items         []Item `json:"items"`
	DefaultItem   byte   `json:"default_item"`
	HelpAvailable bool   `json:"help_available"`
	SoftKey       bool   `json:"soft_key"`
}

// InputType of GET INKEY.
type InputType byte

const (
	InputDigits   InputType = 0
	InputAlphabet InputType = 1
	InputYesNo    InputType = 2
)

type GetInkeyParams struct {
	Presentation
	Text          string    `json:"text"`
	InputType     InputType `json:"input_type"`
	UCS2          bool      `json:"ucs2"`
	HelpAvailable bool      `json:"help_available"`
	Duration      *Duration `json:"duration,omitempty"`
}

type GetInputParams struct {
	Presentation
	Text          string    `json:"text"`
	InputType     InputType `json:"input_type"`
	UCS2          bool      `json:"ucs2"`
	Packed        bool      `json:"packed"`
	HideInput     bool      `json:"hide_input"`
	HelpAvailable bool      `json:"help_available"`
	MinLength     byte      `json:"min_length"`
	MaxLength     byte      `json:"max_length"`
	DefaultText   string    `json:"default_text,omitempty"`
}

type PlayToneParams struct {
	Presentation
	Alpha    *string   `json:"alpha,omitempty"`
	Tone     byte      `json:"tone"`
	Duration *Duration `json:"duration,omitempty"`
	Vibrate  bool      `json:"vibrate"`
}

// CallCondition is the SET UP CALL qualifier.
type CallCondition byte

const (
	CallIfNotBusy        CallCondition = 0
	CallPutOthersOnHold  CallCondition = 1
	CallDisconnectOthers CallCondition = 2
)

type SetupCallParams struct {
	Presentation
	ConfirmText string        `json:"confirm_text,omitempty"`
	CallText    string        `json:"call_text,omitempty"`
	Number      string        `json:"number"`
	Subaddress  string        `json:"subaddress,omitempty"`
	Condition   CallCondition `json:"condition"`
	Redial      bool          `json:"redial"`
	Duration    *Duration     `json:"duration,omitempty"`
}

type SetupEventListParams struct {
	Presentation
	Events []EventType `json:"events"`
}

type SetupIdleModeTextParams struct {
	Presentation
	Text string `json:"text"`
}

type SendSmsParams struct {
	Presentation
	Alpha       *string `json:"alpha,omitempty"`
	Address     string  `json:"address,omitempty"`
	TPDU        []byte  `json:"tpdu,omitempty"`
	Packing     bool    `json:"packing"`
	Destination string  `json:"destination,omitempty"`
	Body        string  `json:"body,omitempty"`
}

type SendSsParams struct {
	Presentation
	Alpha    *string `json:"alpha,omitempty"`
	SsString string  `json:"ss_string"`
}

type SendUssdParams struct {
	Presentation
	Alpha *string `json:"alpha,omitempty"`
	DCS   byte    `json:"dcs"`
	Ussd  string  `json:"ussd"`
	Data  []byte  `json:"data,omitempty"`
}

type SendDtmfParams struct {
	Presentation
	Alpha *string `json:"alpha,omitempty"`
	Dtmf  string  `json:"dtmf"`
}

// LaunchMode is the LAUNCH BROWSER qualifier.
type LaunchMode byte

const (
	LaunchIfNotLaunched    LaunchMode = 0x00
	UseExistingBrowser     LaunchMode = 0x02
	CloseExistingLaunchNew LaunchMode = 0x03
)

type LaunchBrowserParams struct {
	Presentation
	Alpha     *string    `json:"alpha,omitempty"`
	URL       string     `json:"url"`
	Mode      LaunchMode `json:"mode"`
	BrowserID byte       `json:"browser_id"`
	Bearers   []byte     `json:"bearers,omitempty"`
	Gateway   string     `json:"gateway,omitempty"`
}

// RefreshMode is the REFRESH qualifier.
type RefreshMode byte

const (
	RefreshInitFullFileChange RefreshMode = 0x00
	RefreshFileChange         RefreshMode = 0x01
	RefreshInitFileChange     RefreshMode = 0x02
	RefreshInit               RefreshMode = 0x03
	RefreshSimReset           RefreshMode = 0x04
	RefreshAppReset           RefreshMode = 0x05
	RefreshSessionReset       RefreshMode = 0x06
)

type RefreshParams struct {
	Presentation
	Alpha *string     `json:"alpha,omitempty"`
	Mode  RefreshMode `json:"mode"`
	Files []string    `json:"files,omitempty"`
	AID   []byte      `json:"aid,omitempty"`
}

type MoreTimeParams struct {
	Presentation
}

// LocalInfoType is the PROVIDE LOCAL INFORMATION qualifier.
type LocalInfoType byte

const (
	LocalInfoLocation LocalInfoType = 0x00
	LocalInfoIMEI     LocalInfoType = 0x01
	LocalInfoNMR      LocalInfoType = 0x02
	LocalInfoDateTime LocalInfoType = 0x03
	LocalInfoLanguage LocalInfoType = 0x04
	LocalInfoTiming   LocalInfoType = 0x05
	LocalInfoAccess   LocalInfoType = 0x06
)

type ProvideLocalInfoParams struct {
	Presentation
	Info LocalInfoType `json:"info"`
}

type LanguageNotificationParams struct {
	Presentation
	Specific bool   `json:"specific"`
	Language string `json:"language,omitempty"`
}

// Bearer description of a BIP channel.
type Bearer struct {
	Type   byte   `json:"type"`
	Params []byte `json:"params,omitempty"`
}

// ChannelStatus of a BIP channel.
type ChannelStatus struct {
	ChannelID   byte `json:"channel_id"`
	Established bool `json:"established"`
	Info        byte `json:"info"`
}

type OpenChannelParams struct {
	Presentation
	Alpha       *string `json:"alpha,omitempty"`
	Immediate   bool    `json:"immediate"`
	Bearer      Bearer  `json:"bearer"`
	BufferSize  uint16  `json:"buffer_size"`
	Destination string  `json:"destination,omitempty"`
	Transport   byte    `json:"transport,omitempty"`
	Port        uint16  `json:"port,omitempty"`
	Login       string  `json:"login,omitempty"`
	Password    string  `json:"password,omitempty"`
	APN         string  `json:"apn,omitempty"`
}

type CloseChannelParams struct {
	Presentation
	Alpha     *string `json:"alpha,omitempty"`
	ChannelID byte    `json:"channel_id"`
}

type ReceiveDataParams struct {
	Presentation
	Alpha     *string `json:"alpha,omitempty"`
	ChannelID byte    `json:"channel_id"`
	Length    byte    `json:"length"`
}

type SendDataParams struct {
	Presentation
	Alpha     *string `json:"alpha,omitempty"`
	ChannelID byte    `json:"channel_id"`
	Immediate bool    `json:"immediate"`
	Data      []byte  `json:"data"`
}

type GetChannelStatusParams struct {
	Presentation
}

// UnsupportedParams stands in for any command without a handler.
type UnsupportedParams struct {
	Presentation
	Raw []byte `json:"raw,omitempty"`
}

func (*DisplayTextParams) CommandType() CommandType          { return DisplayText }
func (*SetupMenuParams) CommandType() CommandType            { return SetupMenu }
func (*SelectItemParams) CommandType() CommandType           { return SelectItem }
func (*GetInkeyParams) CommandType() CommandType             { return GetInkey }
func (*GetInputParams) CommandType() CommandType             { return GetInput }
func (*PlayToneParams) CommandType() CommandType             { return PlayTone }
func (*SetupCallParams) CommandType() CommandType            { return SetupCall }
func (*SetupEventListParams) CommandType() CommandType       { return SetupEventList }
func (*SetupIdleModeTextParams) CommandType() CommandType    { return SetupIdleModeText }
func (*SendSmsParams) CommandType() CommandType              { return SendSms }
func (*SendSsParams) CommandType() CommandType               { return SendSs }
func (*SendUssdParams) CommandType() CommandType             { return SendUssd }
func (*SendDtmfParams) CommandType() CommandType             { return SendDtmf }
func (*LaunchBrowserParams) CommandType() CommandType        { return LaunchBrowser }
func (*RefreshParams) CommandType() CommandType              { return Refresh }
func (*MoreTimeParams) CommandType() CommandType             { return MoreTime }
func (*ProvideLocalInfoParams) CommandType() CommandType     { return ProvideLocalInfo }
func (*LanguageNotificationParams) CommandType() CommandType { return LanguageNotification }
func (*OpenChannelParams) CommandType() CommandType          { return OpenChannel }
func (*CloseChannelParams) CommandType() CommandType         { return CloseChannel }
func (*ReceiveDataParams) CommandType() CommandType          { return ReceiveData }
func (*SendDataParams) CommandType() CommandType             { return SendData }
func (*GetChannelStatusParams) CommandType() CommandType     { return GetChannelStatus }
func (*UnsupportedParams) CommandType() CommandType          { return Unsupported }

var paramsFactory = map[CommandType]func() Params{
	DisplayText:          func() Params { return &DisplayTextParams{} },
	SetupMenu:            func() Params { return &SetupMenuParams{} },
	SelectItem:           func() Params { return &SelectItemParams{} },
	GetInkey:             func() Params { return &GetInkeyParams{} },
	GetInput:             func() Params { return &GetInputParams{} },
	PlayTone:             func() Params { return &PlayToneParams{} },
	SetupCall:            func() Params { return &SetupCallParams{} },
	SetupEventList:       func() Params { return &SetupEventListParams{} },
	SetupIdleModeText:    func() Params { return &SetupIdleModeTextParams{} },
	SendSms:              func() Params { return &SendSmsParams{} },
	SendSs:               func() Params { return &SendSsParams{} },
	SendUssd:             func() Params { return &SendUssdParams{} },
	SendDtmf:             func() Params { return &SendDtmfParams{} },
	LaunchBrowser:        func() Params { return &LaunchBrowserParams{} },
	Refresh:              func() Params { return &RefreshParams{} },
	MoreTime:             func() Params { return &MoreTimeParams{} },
	ProvideLocalInfo:     func() Params { return &ProvideLocalInfoParams{} },
	LanguageNotification: func() Params { return &LanguageNotificationParams{} },
	OpenChannel:          func() Params { return &OpenChannelParams{} },
	CloseChannel:         func() Params { return &CloseChannelParams{} },
	ReceiveData:          func() Params { return &ReceiveDataParams{} },
	SendData:             func() Params { return &SendDataParams{} },
	GetChannelStatus:     func() Params { return &GetChannelStatusParams{} },
}

// NewParams returns an empty variant for t.
func NewParams(t CommandType) Params {
	if f, ok := paramsFactory[t]; ok {
		return f()
	}
	return &UnsupportedParams{}
}

// UnmarshalJSON decodes the header, then the params variant selected by type.
func (c *Command) UnmarshalJSON(data []byte) error {
	var raw struct {
		Header
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decoding command")
	}
	c.Header = raw.Header
	c.Params = NewParams(raw.Type)
	if len(raw.Params) > 0 && string(raw.Params) != "null" {
		if err := json.Unmarshal(raw.Params, c.Params); err != nil {
			return errors.Wrapf(err, "decoding %s params", raw.Type)
		}
	}
	return nil
}

// ParseCommand decodes a command from JSON.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	err := json.Unmarshal(data, &cmd)
	return cmd, err
}

func (t CommandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CommandType) UnmarshalText(b []byte) error {
	*t = ParseCommandType(string(b))
	return nil
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(b []byte) error {
	for k, name := range resultNames {
		if name == string(b) {
			*r = k
			return nil
		}
	}
	return errors.Errorf("unknown result: %q", b)
}
