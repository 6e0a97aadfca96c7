package sat

// Comprehension-required tags used on the terminal side.
const (
	tagCommandDetails    = 0x81
	tagDeviceIdentities  = 0x82
	tagResult            = 0x83
	tagTextString        = 0x8d
	tagItemIdentifier    = 0x90
	tagHelpRequest       = 0x95
	tagEventList         = 0x99
	tagLanguage          = 0xad
	tagDateTimeZone      = 0xa6
	tagBrowserTermCause  = 0xb4
	tagBearerDescription = 0xb5
	tagChannelData       = 0xb6
	tagChannelDataLength = 0xb7
	tagChannelStatus     = 0xb8
	tagBufferSize        = 0xb9

	tagMenuSelection = 0xd3
	tagEventDownload = 0xd6
)

// Longest value a terminal response may carry in one TLV. Handlers keep
// values from outside within it.
const maxValueLength = 0xff

// Longest channel data that fits a RECEIVE DATA response next to its
// command details, device identities, result and channel data length.
const maxChannelData = 0xed

func appendLength(b []byte, n int) []byte {
	switch {
	case n > 0xff:
		return append(b, 0x82, byte(n>>8), byte(n))
	case n > 0x7f:
		return append(b, 0x81, byte(n))
	}
	return append(b, byte(n))
}

func appendTLV(b []byte, tag byte, value ...byte) []byte {
	b = append(b, tag)
	b = appendLength(b, len(value))
	return append(b, value...)
}

func (c ChannelStatus) bytes() []byte {
	b := c.ChannelID & 0x07
	if c.Established {
		b |= 0x80
	}
	return []byte{b, c.Info}
}

// additionalInfo is the result TLV's trailing octet, where one is defined.
func (tr *TerminalResponse) additionalInfo() []byte {
	switch tr.Result {
	case MeUnableToProcessCommand:
		return []byte{byte(tr.MeProblem)}
	case NetworkUnableToProcessCommand, SmsRpError:
		return []byte{byte(tr.NetworkProblem)}
	case SsReturnError, UssdReturnError:
		return []byte{byte(tr.SsProblem)}
	case BearerIndependentProtocolError:
		return []byte{byte(tr.BipProblem)}
	case LaunchBrowserGenericError:
		return []byte{byte(tr.BrowserProblem)}
	}
	return nil
}

// Encode renders the BER-TLV terminal response.
func (tr *TerminalResponse) Encode() []byte {
	var b []byte
	b = appendTLV(b, tagCommandDetails, tr.CommandNumber, byte(tr.CommandType), tr.Qualifier)
	b = appendTLV(b, tagDeviceIdentities, byte(tr.Device.Src), byte(tr.Device.Dest))
	b = appendTLV(b, tagResult, append([]byte{byte(tr.Result)}, tr.additionalInfo()...)...)
	if tr.Text != nil {
		b = appendTLV(b, tagTextString, append([]byte{tr.Text.DCS}, tr.Text.Data...)...)
	}
	if tr.Item != nil {
		b = appendTLV(b, tagItemIdentifier, *tr.Item)
	}
	if len(tr.DateTime) > 0 {
		b = appendTLV(b, tagDateTimeZone, tr.DateTime...)
	}
	if tr.Language != "" {
		b = appendTLV(b, tagLanguage, []byte(tr.Language)...)
	}
	for _, cs := range tr.ChannelStatus {
		b = appendTLV(b, tagChannelStatus, cs.bytes()...)
	}
	if tr.Bearer != nil {
		b = appendTLV(b, tagBearerDescription, append([]byte{tr.Bearer.Type}, tr.Bearer.Params...)...)
	}
	if tr.BufferSize != nil {
		b = appendTLV(b, tagBufferSize, byte(*tr.BufferSize>>8), byte(*tr.BufferSize))
	}
	if tr.ChannelData != nil {
		b = appendTLV(b, tagChannelData, tr.ChannelData...)
	}
	if tr.ChannelDataLen != nil {
		b = appendTLV(b, tagChannelDataLength, *tr.ChannelDataLen)
	}
	return b
}

// Encode renders the envelope.
func (env *Envelope) Encode() []byte {
	var body []byte
	switch env.Kind {
	case EnvelopeMenuSelection:
		body = appendTLV(body, tagDeviceIdentities, byte(env.Device.Src), byte(env.Device.Dest))
		body = appendTLV(body, tagItemIdentifier, env.Item)
		if env.Help {
			body = appendTLV(body, tagHelpRequest)
		}
		return appendTLV(nil, tagMenuSelection, body...)
	}

	body = appendTLV(body, tagEventList, byte(env.Event))
	body = appendTLV(body, tagDeviceIdentities, byte(env.Device.Src), byte(env.Device.Dest))
	p := env.Payload
	switch env.Event {
	case EventLanguageSelection:
		body = appendTLV(body, tagLanguage, []byte(p.Language)...)
	case EventBrowserTermination:
		body = appendTLV(body, tagBrowserTermCause, p.BrowserCause)
	case EventDataAvailable:
		if p.ChannelStatus != nil {
			body = appendTLV(body, tagChannelStatus, p.ChannelStatus.bytes()...)
		}
		body = appendTLV(body, tagChannelDataLength, p.DataLength)
	case EventChannelStatus:
		if p.ChannelStatus != nil {
			body = appendTLV(body, tagChannelStatus, p.ChannelStatus.bytes()...)
		}
	}
	return appendTLV(nil, tagEventDownload, body...)
}
