package sat

import "fmt"

// CommandType is the type-of-command octet of a proactive command.
type CommandType byte

const (
	Refresh              CommandType = 0x01
	MoreTime             CommandType = 0x02
	SetupEventList       CommandType = 0x05
	SetupCall            CommandType = 0x10
	SendSs               CommandType = 0x11
	SendUssd             CommandType = 0x12
	SendSms              CommandType = 0x13
	SendDtmf             CommandType = 0x14
	LaunchBrowser        CommandType = 0x15
	PlayTone             CommandType = 0x20
	DisplayText          CommandType = 0x21
	GetInkey             CommandType = 0x22
	GetInput             CommandType = 0x23
	SelectItem           CommandType = 0x24
	SetupMenu            CommandType = 0x25
	ProvideLocalInfo     CommandType = 0x26
	SetupIdleModeText    CommandType = 0x28
	LanguageNotification CommandType = 0x35
	OpenChannel          CommandType = 0x40
	CloseChannel         CommandType = 0x41
	ReceiveData          CommandType = 0x42
	SendData             CommandType = 0x43
	GetChannelStatus     CommandType = 0x44
	Unsupported          CommandType = 0xff
)

var commandNames = map[CommandType]string{
	Refresh:              "refresh",
	MoreTime:             "more_time",
	SetupEventList:       "setup_event_list",
	SetupCall:            "setup_call",
	SendSs:               "send_ss",
	SendUssd:             "send_ussd",
	SendSms:              "send_sms",
	SendDtmf:             "send_dtmf",
	LaunchBrowser:        "launch_browser",
	PlayTone:             "play_tone",
	DisplayText:          "display_text",
	GetInkey:             "get_inkey",
	GetInput:             "get_input",
	SelectItem:           "select_item",
	SetupMenu:            "setup_menu",
	ProvideLocalInfo:     "provide_local_info",
	SetupIdleModeText:    "setup_idle_mode_text",
	LanguageNotification: "language_notification",
	OpenChannel:          "open_channel",
	CloseChannel:         "close_channel",
	ReceiveData:          "receive_data",
	SendData:             "send_data",
	GetChannelStatus:     "get_channel_status",
	Unsupported:          "unsupported",
}

func (t CommandType) String() string {
	if s, ok := commandNames[t]; ok {
		return s
	}
	return fmt.Sprintf("command(0x%02x)", byte(t))
}

// ParseCommandType maps a name back to its type. Unknown names are Unsupported.
func ParseCommandType(s string) CommandType {
	for t, name := range commandNames {
		if name == s {
			return t
		}
	}
	return Unsupported
}

// Result is the general result of a terminal response.
type Result byte

const (
	Success                             Result = 0x00
	SuccessWithPartialComprehension     Result = 0x01
	SuccessWithMissingInfo              Result = 0x02
	RefreshWithAdditionalEfsRead        Result = 0x03
	SuccessButRequestedIconNotDisplayed Result = 0x04
	SuccessButModifiedByCallControl     Result = 0x05
	SuccessLimitedService               Result = 0x06
	SuccessWithModification             Result = 0x07
	ProactiveSessionTerminatedByUser    Result = 0x10
	BackwardMoveByUser                  Result = 0x11
	NoResponseFromUser                  Result = 0x12
	HelpInfoRequiredByUser              Result = 0x13
	UssdOrSsTerminatedByUser            Result = 0x14
	MeUnableToProcessCommand            Result = 0x20
	NetworkUnableToProcessCommand       Result = 0x21
	UserDidNotAcceptProactiveCommand    Result = 0x22
	UserClearedDownCallBeforeConnection Result = 0x23
	LaunchBrowserGenericError           Result = 0x26
	BeyondMeCapabilities                Result = 0x30
	CommandTypeNotUnderstoodByMe        Result = 0x31
	CommandDataNotUnderstoodByMe        Result = 0x32
	CommandNumberNotKnownByMe           Result = 0x33
	SsReturnError                       Result = 0x34
	SmsRpError                          Result = 0x35
	ErrorRequiredValuesMissing          Result = 0x36
	UssdReturnError                     Result = 0x37
	CallControlPermanentProblem         Result = 0x39
	BearerIndependentProtocolError      Result = 0x3a
)

var resultNames = map[Result]string{
	Success:                             "success",
	SuccessWithPartialComprehension:     "success_partial_comprehension",
	SuccessWithMissingInfo:              "success_missing_info",
	RefreshWithAdditionalEfsRead:        "refresh_additional_efs_read",
	SuccessButRequestedIconNotDisplayed: "success_icon_not_displayed",
	SuccessButModifiedByCallControl:     "success_modified_by_call_control",
	SuccessLimitedService:               "success_limited_service",
	SuccessWithModification:             "success_with_modification",
	ProactiveSessionTerminatedByUser:    "session_terminated_by_user",
	BackwardMoveByUser:                  "backward_move_by_user",
	NoResponseFromUser:                  "no_response_from_user",
	HelpInfoRequiredByUser:              "help_info_required",
	UssdOrSsTerminatedByUser:            "ussd_ss_terminated_by_user",
	MeUnableToProcessCommand:            "me_unable_to_process",
	NetworkUnableToProcessCommand:       "network_unable_to_process",
	UserDidNotAcceptProactiveCommand:    "user_did_not_accept",
	UserClearedDownCallBeforeConnection: "user_cleared_down_call",
	LaunchBrowserGenericError:           "launch_browser_error",
	BeyondMeCapabilities:                "beyond_me_capabilities",
	CommandTypeNotUnderstoodByMe:        "command_type_not_understood",
	CommandDataNotUnderstoodByMe:        "command_data_not_understood",
	CommandNumberNotKnownByMe:           "command_number_not_known",
	SsReturnError:                       "ss_return_error",
	SmsRpError:                          "sms_rp_error",
	ErrorRequiredValuesMissing:          "required_values_missing",
	UssdReturnError:                     "ussd_return_error",
	CallControlPermanentProblem:         "call_control_permanent_problem",
	BearerIndependentProtocolError:      "bip_error",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("result(0x%02x)", byte(r))
}

// IsSuccess reports whether r is one of the 0x0X successful results.
func (r Result) IsSuccess() bool {
	return r <= 0x0f
}

// MeProblem is the additional information for MeUnableToProcessCommand.
type MeProblem byte

const (
	MeNoSpecificCause         MeProblem = 0x00
	MeScreenBusy              MeProblem = 0x01
	MeBusyOnCall              MeProblem = 0x02
	MeBusyOnSs                MeProblem = 0x03
	MeNoService               MeProblem = 0x04
	MeAccessControlClassBar   MeProblem = 0x05
	MeRadioResourceNotGranted MeProblem = 0x06
	MeNotInSpeechCall         MeProblem = 0x07
	MeBusyOnUssd              MeProblem = 0x08
	MeBusyOnSendDtmf          MeProblem = 0x09
	MeNoUsimActive            MeProblem = 0x0a
)

// NetworkProblem is the cause reported with NetworkUnableToProcessCommand.
// Zero means no specific cause; otherwise it carries the network cause value
// with bit 8 set as required on the wire.
type NetworkProblem byte

const NetworkNoSpecificCause NetworkProblem = 0x00

// SsProblem carries the SS/USSD return error value.
type SsProblem byte

const SsNoSpecificCause SsProblem = 0x00

// BipProblem is the additional information for BearerIndependentProtocolError.
type BipProblem byte

const (
	BipNoSpecificCause          BipProblem = 0x00
	BipNoChannelAvailable       BipProblem = 0x01
	BipChannelClosed            BipProblem = 0x02
	BipChannelIDNotValid        BipProblem = 0x03
	BipBufferSizeNotAvailable   BipProblem = 0x04
	BipSecurityError            BipProblem = 0x05
	BipTransportNotAvailable    BipProblem = 0x06
	BipRemoteDeviceNotReachable BipProblem = 0x07
	BipServiceError             BipProblem = 0x08
	BipServiceIdentifierUnknown BipProblem = 0x09
)

// BrowserProblem is the additional information for LaunchBrowserGenericError.
type BrowserProblem byte

const (
	BrowserNoSpecificCause     BrowserProblem = 0x00
	BrowserBearerUnavailable   BrowserProblem = 0x01
	BrowserUnavailable         BrowserProblem = 0x02
	BrowserUnableToReadProfile BrowserProblem = 0x03
)

// Device is a device identity.
type Device byte

const (
	DeviceKeypad   Device = 0x01
	DeviceDisplay  Device = 0x02
	DeviceEarpiece Device = 0x03
	DeviceSim      Device = 0x81
	DeviceMe       Device = 0x82
	DeviceNetwork  Device = 0x83
)

// Devices is a source/destination pair.
type Devices struct {
	Src  Device `json:"src"`
	Dest Device `json:"dest"`
}

// ConfirmType is how the user answered a prompt.
type ConfirmType int

const (
	ConfirmYes ConfirmType = iota
	ConfirmNoOrCancel
	ConfirmHelpInfo
	ConfirmTimeout
	ConfirmEnd
)

var confirmNames = []string{"yes", "no", "help", "timeout", "end"}

func (c ConfirmType) String() string {
	if int(c) < len(confirmNames) {
		return confirmNames[c]
	}
	return fmt.Sprintf("confirm(%d)", int(c))
}

// ParseConfirmType parses "yes", "no", "help", "timeout" or "end".
func ParseConfirmType(s string) (ConfirmType, error) {
	for i, name := range confirmNames {
		if name == s {
			return ConfirmType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown confirm type: %q", s)
}

// ExecOutcome is what an executing application (dialer, browser, SMS/SS
// stack, BIP stack) reports after acting on a command.
type ExecOutcome int

const (
	ExecSuccess ExecOutcome = iota
	ExecSuccessLimitedService
	ExecModifiedByCallControl
	ExecMeUnable
	ExecNetworkUnable
	ExecUserDidNotAccept
	ExecUserClearedDown
	ExecUserTerminated
	ExecSsError
	ExecUssdError
	ExecSmsRpError
	ExecCallControlProblem
	ExecBrowserError
	ExecBipError
	ExecBeyondCapabilities
)

var outcomeNames = []string{
	"success",
	"success_limited_service",
	"modified_by_call_control",
	"me_unable",
	"network_unable",
	"user_did_not_accept",
	"user_cleared_down",
	"user_terminated",
	"ss_error",
	"ussd_error",
	"sms_rp_error",
	"call_control_problem",
	"browser_error",
	"bip_error",
	"beyond_capabilities",
}

func (o ExecOutcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ParseExecOutcome parses an outcome name.
func ParseExecOutcome(s string) (ExecOutcome, error) {
	for i, name := range outcomeNames {
		if name == s {
			return ExecOutcome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown exec outcome: %q", s)
}
