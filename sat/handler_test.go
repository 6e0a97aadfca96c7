package sat

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCallDispatch(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupCall, &SetupCallParams{Number: "+441234", ConfirmText: "Call?", Condition: CallPutOthersOnHold}))
	n := rec.lastNote(t)
	assert.Equal(t, "+441234", n.Number)
	assert.True(t, n.UserResponseRequired)

	require.NoError(t, m.Confirm(n.CommandID, ConfirmYes, nil))
	assert.Empty(t, rec.responses)
	require.Len(t, rec.dispatches, 1)
	assert.Equal(t, n.CommandID, rec.dispatches[0].CommandID)
	assert.Equal(t, SetupCall, rec.dispatches[0].Command.Type)
	assert.Error(t, m.Confirm(n.CommandID, ConfirmYes, nil), "dispatched twice")

	require.NoError(t, m.Exec(n.CommandID, SetupCall, ExecResult{Outcome: ExecSuccess}))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
}

func TestSetupCallRefused(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupCall, &SetupCallParams{Number: "123"}))
	require.NoError(t, m.Confirm(rec.lastNote(t).CommandID, ConfirmNoOrCancel, nil))
	assert.Equal(t, UserDidNotAcceptProactiveCommand, rec.onlyResponse(t).Result)
	assert.Empty(t, rec.dispatches)
}

func TestSetupCallRejections(t *testing.T) {
	cases := []struct {
		params   SetupCallParams
		expected Result
	}{
		{SetupCallParams{}, CommandDataNotUnderstoodByMe},
		{SetupCallParams{Number: "1", Redial: true}, BeyondMeCapabilities},
		{SetupCallParams{Number: "1", Subaddress: "22"}, BeyondMeCapabilities},
	}
	for _, c := range cases {
		m, rec, _, _ := newTestManager(Config{})
		p := c.params
		m.Handle(command(SetupCall, &p))
		assert.Empty(t, rec.notes)
		assert.Equal(t, c.expected, rec.onlyResponse(t).Result)
	}
}

func TestSetupCallBusy(t *testing.T) {
	m, rec, _, b := newTestManager(Config{})
	b.call = true
	m.Handle(command(SetupCall, &SetupCallParams{Number: "1"}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, MeUnableToProcessCommand, tr.Result)
	assert.Equal(t, MeBusyOnCall, tr.MeProblem)

	m.Handle(command(SetupCall, &SetupCallParams{Number: "1", Condition: CallDisconnectOthers}))
	assert.Len(t, rec.notes, 1)
}

func TestSetupCallClearedDown(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupCall, &SetupCallParams{Number: "1"}))
	id := rec.lastNote(t).CommandID
	m.Confirm(id, ConfirmYes, nil)
	require.NoError(t, m.Exec(id, SetupCall, ExecResult{Outcome: ExecUserClearedDown}))
	assert.Equal(t, UserClearedDownCallBeforeConnection, rec.onlyResponse(t).Result)
}

func TestSetupCallNetworkProblem(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupCall, &SetupCallParams{Number: "1"}))
	id := rec.lastNote(t).CommandID
	m.Confirm(id, ConfirmYes, nil)
	m.Exec(id, SetupCall, ExecResult{Outcome: ExecNetworkUnable, NetworkProblem: 0x91})
	tr := rec.onlyResponse(t)
	assert.Equal(t, NetworkUnableToProcessCommand, tr.Result)
	assert.Equal(t, []byte{0x83, 0x02, 0x21, 0x91}, tr.Encode()[9:13])
}

func TestSendDtmf(t *testing.T) {
	m, rec, _, b := newTestManager(Config{})
	m.Handle(command(SendDtmf, &SendDtmfParams{Dtmf: "1234"}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, MeUnableToProcessCommand, tr.Result)
	assert.Equal(t, MeNotInSpeechCall, tr.MeProblem)

	b.call = true
	rec.responses = nil
	m.Handle(command(SendDtmf, &SendDtmfParams{}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SendDtmf, &SendDtmfParams{Dtmf: "1234"}))
	n := rec.lastNote(t)
	assert.True(t, n.Silent)
	require.NoError(t, m.DisplayStatus(n.CommandID, true))
	require.Len(t, rec.dispatches, 1)
	require.NoError(t, m.Exec(n.CommandID, SendDtmf, ExecResult{Outcome: ExecSuccess}))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
}

func TestSendSsNoAlphaIcon(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	p := &SendSsParams{SsString: "**21*123#"}
	p.Icon = &Icon{ID: 3, SelfExplanatory: false}
	m.Handle(command(SendSs, p))
	assert.Empty(t, rec.notes)
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)
	assert.Equal(t, 0, m.Store().Len())
}

func TestSendSsSelfExplanatoryIcon(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{IconSupported: true})
	p := &SendSsParams{SsString: "**21*123#"}
	p.Icon = &Icon{ID: 3, SelfExplanatory: true}
	m.Handle(command(SendSs, p))
	n := rec.lastNote(t)
	assert.Equal(t, "**21*123#", n.SsString)
	assert.Empty(t, rec.responses)
}

func TestSendSsTooLong(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	long := make([]byte, maxSsLength+1)
	for i := range long {
		long[i] = '1'
	}
	m.Handle(command(SendSs, &SendSsParams{Alpha: str("x"), SsString: string(long)}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)
}

func TestSendSsBusy(t *testing.T) {
	m, rec, _, b := newTestManager(Config{})
	b.ss = true
	m.Handle(command(SendSs, &SendSsParams{Alpha: str("x"), SsString: "*#21#"}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, MeUnableToProcessCommand, tr.Result)
	assert.Equal(t, MeBusyOnSs, tr.MeProblem)
}

func TestSendSsReturnedString(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendSs, &SendSsParams{Alpha: str("Checking"), SsString: "*#21#"}))
	id := rec.lastNote(t).CommandID
	require.NoError(t, m.DisplayStatus(id, true))
	require.Len(t, rec.dispatches, 1)

	data := PackSeptets(gsmSeptets("Not active"))
	require.NoError(t, m.Exec(id, SendSs, ExecResult{Outcome: ExecSuccess, DCS: 0x00, Data: data}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, Success, tr.Result)
	require.NotNil(t, tr.Text)
	s, err := DecodeText(AlphabetFromDCS(tr.Text.DCS), tr.Text.Data)
	require.NoError(t, err)
	assert.Equal(t, "Not active", s)
}

func TestSendSsReturnError(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendSs, &SendSsParams{Alpha: str("x"), SsString: "*#21#"}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)
	m.Exec(id, SendSs, ExecResult{Outcome: ExecSsError, SsProblem: 0x12})
	tr := rec.onlyResponse(t)
	assert.Equal(t, SsReturnError, tr.Result)
	assert.Equal(t, []byte{0x34, 0x12}, resultBytes(tr))
}

func resultBytes(tr *TerminalResponse) []byte {
	return append([]byte{byte(tr.Result)}, tr.additionalInfo()...)
}

func TestSendUssd8BitAnswer(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("Balance"), DCS: 0x0f, Ussd: "*100#"}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)

	data := []byte{0xde, 0xad, 0xbe, 0xef}
	require.NoError(t, m.Exec(id, SendUssd, ExecResult{Outcome: ExecSuccess, DCS: 0x44, Data: data}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, Success, tr.Result)
	require.NotNil(t, tr.Text)
	assert.Equal(t, Alphabet8Bit.DCS(), tr.Text.DCS)
	assert.Equal(t, data, tr.Text.Data)
	assert.Equal(t, []byte{0x8d, 0x05, 0x04, 0xde, 0xad, 0xbe, 0xef}, tr.Encode()[12:])
}

func TestSendUssdAnswerTooLong(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("Balance"), DCS: 0x0f, Ussd: "*100#"}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)

	require.NoError(t, m.Exec(id, SendUssd, ExecResult{Outcome: ExecSuccess, DCS: 0x44, Data: make([]byte, 300)}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, MeUnableToProcessCommand, tr.Result)
	assert.Nil(t, tr.Text)
}

func TestSendUssdUcs2Answer(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("Balance"), DCS: 0x0f, Ussd: "*100#"}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)

	text, _ := EncodeText(AlphabetUcs2, "£5")
	require.NoError(t, m.Exec(id, SendUssd, ExecResult{Outcome: ExecSuccess, DCS: 0x11, Data: text.Data}))
	tr := rec.onlyResponse(t)
	require.NotNil(t, tr.Text)
	assert.Equal(t, AlphabetUcs2.DCS(), tr.Text.DCS)
	assert.Equal(t, text.Data, tr.Text.Data)
}

func TestSendUssdTerminated(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("x"), Ussd: "*100#"}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)
	m.Exec(id, SendUssd, ExecResult{Outcome: ExecUserTerminated})
	assert.Equal(t, UssdOrSsTerminatedByUser, rec.onlyResponse(t).Result)
}

func TestSendUssdValidation(t *testing.T) {
	m, rec, _, b := newTestManager(Config{})
	m.Handle(command(SendUssd, &SendUssdParams{Ussd: "*100#"}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("x")}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	b.ussd = true
	m.Handle(command(SendUssd, &SendUssdParams{Alpha: str("x"), Ussd: "*100#"}))
	assert.Equal(t, MeBusyOnUssd, rec.onlyResponse(t).MeProblem)
}

func TestSendSms(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendSms, &SendSmsParams{}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SendSms, &SendSmsParams{Alpha: str("Sending"), Destination: "+4477", Body: "hi"}))
	n := rec.lastNote(t)
	assert.Equal(t, "Sending", n.Text)
	assert.Equal(t, "+4477", n.Number)
	m.DisplayStatus(n.CommandID, true)
	require.Len(t, rec.dispatches, 1)

	m.Exec(n.CommandID, SendSms, ExecResult{Outcome: ExecSmsRpError, NetworkProblem: 0x2a})
	tr := rec.onlyResponse(t)
	assert.Equal(t, SmsRpError, tr.Result)
	assert.Equal(t, NetworkProblem(0x2a), tr.NetworkProblem)
}

func TestSendSmsCancelledBeforeSent(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SendSms, &SendSmsParams{TPDU: []byte{0x01, 0x00}}))
	n := rec.lastNote(t)
	assert.True(t, n.Silent)
	m.Confirm(n.CommandID, ConfirmEnd, nil)
	assert.Equal(t, ProactiveSessionTerminatedByUser, rec.onlyResponse(t).Result)
	assert.Empty(t, rec.dispatches)
}

func TestPlayTone(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{ToneDuration: 500 * time.Millisecond})
	m.Handle(command(PlayTone, &PlayToneParams{Alpha: str("Ring"), Tone: 0x10}))
	n := rec.lastNote(t)
	assert.Equal(t, 500, n.Duration)
	assert.Equal(t, byte(0x10), n.Tone)
	m.DisplayStatus(n.CommandID, true)
	require.Len(t, rec.dispatches, 1)
	m.Confirm(n.CommandID, ConfirmNoOrCancel, nil)
	assert.Equal(t, ProactiveSessionTerminatedByUser, rec.onlyResponse(t).Result)
}

func TestLaunchBrowser(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(LaunchBrowser, &LaunchBrowserParams{URL: "http://example.com", Mode: 1}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(LaunchBrowser, &LaunchBrowserParams{URL: "http://example.com", Mode: CloseExistingLaunchNew}))
	n := rec.lastNote(t)
	assert.Equal(t, "http://example.com", n.URL)
	m.Confirm(n.CommandID, ConfirmYes, nil)
	require.Len(t, rec.dispatches, 1)
	m.Exec(n.CommandID, LaunchBrowser, ExecResult{Outcome: ExecBrowserError, BrowserProblem: BrowserUnavailable})
	tr := rec.onlyResponse(t)
	assert.Equal(t, LaunchBrowserGenericError, tr.Result)
	assert.Equal(t, BrowserUnavailable, tr.BrowserProblem)
}

func TestSetupIdleModeText(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	p := &SetupIdleModeTextParams{}
	p.Icon = &Icon{ID: 1}
	m.Handle(command(SetupIdleModeText, p))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SetupIdleModeText, &SetupIdleModeTextParams{Text: "Operator"}))
	n := rec.lastNote(t)
	assert.Empty(t, rec.responses)
	require.NoError(t, m.DisplayStatus(n.CommandID, true))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
	assert.Equal(t, 0, m.Store().Len())
}

func TestSetupMenuAndSelection(t *testing.T) {
	m, rec, kv, _ := newTestManager(Config{})
	_, err := m.MenuSelection("cp0", 1, false)
	assert.Equal(t, ErrNoMainMenu, err)

	m.Handle(command(SetupMenu, &SetupMenuParams{}))
	assert.Equal(t, BeyondMeCapabilities, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SetupMenu, &SetupMenuParams{Title: "Services", Items: menuItems()}))
	n := rec.lastNote(t)
	require.NoError(t, m.DisplayStatus(n.CommandID, true))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
	assert.Equal(t, "1", kv[KeyState])
	_, ok := m.MainMenu("cp0")
	assert.True(t, ok)

	_, err = m.MenuSelection("cp0", 9, false)
	assert.Error(t, err)

	env, err := m.MenuSelection("cp0", 2, true)
	require.NoError(t, err)
	require.Len(t, rec.envelopes, 1)
	assert.Equal(t, []byte{0xd3, 0x09, 0x82, 0x02, 0x01, 0x81, 0x90, 0x01, 0x02, 0x95, 0x00}, env.Encode())

	m.Reset("cp0")
	_, err = m.MenuSelection("cp0", 2, false)
	assert.Equal(t, ErrNoMainMenu, err)
}

func TestSetupEventListUnrecognised(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventUserActivity, EventMtCall, EventChannelStatus}}))
	assert.Empty(t, rec.notes)
	tr := rec.onlyResponse(t)
	assert.Equal(t, BeyondMeCapabilities, tr.Result)
	assert.Equal(t, -1, tr.CommandID)
	assert.True(t, m.IsEventEnabled(EventUserActivity))
	assert.True(t, m.IsEventEnabled(EventChannelStatus))
	assert.False(t, m.IsEventEnabled(EventMtCall))
	assert.Equal(t, 0, m.Store().Len())
}

func TestSetupEventListReplaces(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventUserActivity}}))
	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventLanguageSelection}}))
	assert.Equal(t, []EventType{EventLanguageSelection}, m.Events())
	assert.Equal(t, Success, rec.responses[1].Result)

	m.Handle(command(SetupEventList, &SetupEventListParams{}))
	assert.Empty(t, m.Events())
	assert.Equal(t, Success, rec.responses[2].Result)
}

func TestEventGate(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	err := m.Event("cp0", EventUserActivity, Devices{}, EventPayload{})
	assert.Equal(t, ErrEventDisabled, errors.Cause(err))
	err = m.Event("cp0", EventMtCall, Devices{}, EventPayload{})
	assert.Equal(t, ErrUnsupportedEvent, errors.Cause(err))
	assert.Empty(t, rec.envelopes)

	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventUserActivity, EventLanguageSelection}}))
	require.NoError(t, m.Event("cp0", EventUserActivity, Devices{}, EventPayload{}))
	require.Len(t, rec.envelopes, 1)
	assert.Equal(t, []byte{0xd6, 0x07, 0x99, 0x01, 0x04, 0x82, 0x02, 0x82, 0x81}, rec.envelopes[0].Encode())

	err = m.Event("cp0", EventUserActivity, Devices{}, EventPayload{})
	assert.Equal(t, ErrEventDisabled, errors.Cause(err), "one shot")

	require.NoError(t, m.Event("cp0", EventLanguageSelection, Devices{}, EventPayload{Language: "de"}))
	require.NoError(t, m.Event("cp0", EventLanguageSelection, Devices{}, EventPayload{Language: "fr"}))
	assert.Len(t, rec.envelopes, 3)
}

func TestIdleScreenOnEventList(t *testing.T) {
	m, rec, kv, _ := newTestManager(Config{})
	kv[KeyIdleScreen] = "1"
	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventIdleScreenAvailable}}))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
	require.Len(t, rec.envelopes, 1)
	env := rec.envelopes[0]
	assert.Equal(t, EventIdleScreenAvailable, env.Event)
	assert.Equal(t, Devices{Src: DeviceDisplay, Dest: DeviceSim}, env.Device)
	assert.False(t, m.IsEventEnabled(EventIdleScreenAvailable))
}

func TestRefreshClearsEvents(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(SetupEventList, &SetupEventListParams{Events: []EventType{EventChannelStatus}}))
	assert.True(t, m.IsEventEnabled(EventChannelStatus))

	m.Handle(command(Refresh, &RefreshParams{Mode: RefreshFileChange, Files: []string{"3F002FE2"}}))
	assert.True(t, m.IsEventEnabled(EventChannelStatus))

	m.Handle(command(Refresh, &RefreshParams{Mode: RefreshInit}))
	assert.False(t, m.IsEventEnabled(EventChannelStatus))

	n := rec.lastNote(t)
	assert.True(t, n.Silent)
	rec.responses = nil
	require.NoError(t, m.DisplayStatus(n.CommandID, true))
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
}

func TestRefreshValidation(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(Refresh, &RefreshParams{Mode: RefreshFileChange}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)
	rec.responses = nil
	m.Handle(command(Refresh, &RefreshParams{Mode: 0x07}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)
}

func TestMoreTime(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(MoreTime, &MoreTimeParams{}))
	assert.Empty(t, rec.notes)
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
	assert.Equal(t, 0, m.Store().Len())
}

func TestProvideLocalInfoDateTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 30, 0, time.FixedZone("CET", 3600))
	m, rec, _, _ := newTestManager(Config{Now: func() time.Time { return now }})
	cmd := command(ProvideLocalInfo, &ProvideLocalInfoParams{Info: LocalInfoDateTime})
	cmd.Qualifier = byte(LocalInfoDateTime)
	m.Handle(cmd)
	tr := rec.onlyResponse(t)
	assert.Equal(t, Success, tr.Result)
	assert.Equal(t, []byte{0x42, 0x30, 0x51, 0x31, 0x54, 0x03, 0x40}, tr.DateTime)
}

func TestDateTimeZoneWest(t *testing.T) {
	now := time.Date(2009, 12, 1, 8, 5, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, []byte{0x90, 0x21, 0x10, 0x80, 0x50, 0x00, 0x0a}, dateTimeZone(now))
}

func TestProvideLocalInfoLanguage(t *testing.T) {
	m, rec, kv, _ := newTestManager(Config{Language: "fr"})
	m.Handle(command(ProvideLocalInfo, &ProvideLocalInfoParams{Info: LocalInfoLanguage}))
	assert.Equal(t, "fr", rec.responses[0].Language)

	kv[KeyLanguage] = "DE-de"
	m.Handle(command(ProvideLocalInfo, &ProvideLocalInfoParams{Info: LocalInfoLanguage}))
	assert.Equal(t, "de", rec.responses[1].Language)

	m.Handle(command(ProvideLocalInfo, &ProvideLocalInfoParams{Info: LocalInfoIMEI}))
	assert.Equal(t, BeyondMeCapabilities, rec.responses[2].Result)
}

func TestLanguageNotification(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(LanguageNotification, &LanguageNotificationParams{Specific: true, Language: "EN"}))
	n := rec.lastNote(t)
	assert.Equal(t, "en", n.Language)
	m.DisplayStatus(n.CommandID, true)
	assert.Equal(t, Success, rec.onlyResponse(t).Result)
}

func TestGetInputAlphabets(t *testing.T) {
	cases := []struct {
		params   GetInputParams
		alphabet Alphabet
	}{
		{GetInputParams{Text: "Name?", MaxLength: 20}, Alphabet8Bit},
		{GetInputParams{Text: "Name?", MaxLength: 20, Packed: true}, AlphabetGsm7},
		{GetInputParams{Text: "Name?", MaxLength: 20, UCS2: true}, AlphabetUcs2},
	}
	for _, c := range cases {
		m, rec, _, _ := newTestManager(Config{})
		p := c.params
		m.Handle(command(GetInput, &p))
		n := rec.lastNote(t)
		assert.Equal(t, c.alphabet, n.Alphabet)

		require.NoError(t, m.Confirm(n.CommandID, ConfirmYes, []byte("Café 1")))
		tr := rec.onlyResponse(t)
		require.NotNil(t, tr.Text)
		assert.Equal(t, c.alphabet.DCS(), tr.Text.DCS)
		s, err := DecodeText(c.alphabet, tr.Text.Data)
		require.NoError(t, err)
		assert.Equal(t, "Café 1", s)
	}
}

func TestGetInputUcs2TooLong(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(GetInput, &GetInputParams{Text: "Message?", MaxLength: 0xff, UCS2: true}))
	answer := make([]byte, 128)
	for i := range answer {
		answer[i] = 'a'
	}
	require.NoError(t, m.Confirm(rec.lastNote(t).CommandID, ConfirmYes, answer))
	tr := rec.onlyResponse(t)
	assert.Equal(t, MeUnableToProcessCommand, tr.Result)
	assert.Equal(t, MeNoSpecificCause, tr.MeProblem)
	assert.Nil(t, tr.Text)
}

func TestGetInputLengths(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(GetInput, &GetInputParams{Text: "PIN", MinLength: 5, MaxLength: 4}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)
}

func TestGetInkeyYesNo(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(GetInkey, &GetInkeyParams{Text: "OK?", InputType: InputYesNo}))
	m.Confirm(rec.lastNote(t).CommandID, ConfirmYes, []byte{1})
	tr := rec.onlyResponse(t)
	assert.Equal(t, &Text{DCS: 0x04, Data: []byte{0x01}}, tr.Text)
	assert.Equal(t, []byte{0x8d, 0x02, 0x04, 0x01}, tr.Encode()[12:])
}

func TestOpenChannel(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(OpenChannel, &OpenChannelParams{Bearer: Bearer{Type: 0x03}}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(OpenChannel, &OpenChannelParams{Bearer: Bearer{Type: 0x01}, BufferSize: 1400}))
	assert.Equal(t, BeyondMeCapabilities, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(OpenChannel, &OpenChannelParams{Alpha: str("Connect?"), Bearer: Bearer{Type: 0x03}, BufferSize: 1400}))
	n := rec.lastNote(t)
	assert.Equal(t, uint16(1400), n.BufferSize)
	m.Confirm(n.CommandID, ConfirmYes, nil)
	require.Len(t, rec.dispatches, 1)

	channel := ChannelStatus{ChannelID: 1, Established: true}
	m.Exec(n.CommandID, OpenChannel, ExecResult{Outcome: ExecSuccess, Channel: &channel, BufferSize: 1000})
	tr := rec.onlyResponse(t)
	assert.Equal(t, SuccessWithModification, tr.Result)
	assert.Equal(t, uint16(1000), *tr.BufferSize)
	assert.Equal(t, []ChannelStatus{channel}, tr.ChannelStatus)
	assert.Equal(t, []byte{0xb8, 0x02, 0x81, 0x00, 0xb5, 0x01, 0x03, 0xb9, 0x02, 0x03, 0xe8}, tr.Encode()[12:])
}

func TestOpenChannelBipError(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(OpenChannel, &OpenChannelParams{Bearer: Bearer{Type: 0x02}, BufferSize: 512}))
	id := rec.lastNote(t).CommandID
	m.Confirm(id, ConfirmYes, nil)
	m.Exec(id, OpenChannel, ExecResult{Outcome: ExecBipError, BipProblem: BipNoChannelAvailable})
	tr := rec.onlyResponse(t)
	assert.Equal(t, BearerIndependentProtocolError, tr.Result)
	assert.Equal(t, BipNoChannelAvailable, tr.BipProblem)
}

func TestChannelData(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(ReceiveData, &ReceiveDataParams{Length: 4}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(ReceiveData, &ReceiveDataParams{ChannelID: 1, Length: 4}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)
	m.Exec(id, ReceiveData, ExecResult{Outcome: ExecSuccess, Data: []byte{1, 2}, Remaining: 300})
	tr := rec.onlyResponse(t)
	assert.Equal(t, SuccessWithMissingInfo, tr.Result)
	assert.Equal(t, []byte{1, 2}, tr.ChannelData)
	assert.Equal(t, byte(0xff), *tr.ChannelDataLen)

	rec.responses = nil
	m.Handle(command(SendData, &SendDataParams{ChannelID: 1}))
	assert.Equal(t, CommandDataNotUnderstoodByMe, rec.onlyResponse(t).Result)

	rec.responses = nil
	m.Handle(command(SendData, &SendDataParams{ChannelID: 1, Data: []byte("GET /")}))
	id = rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)
	m.Exec(id, SendData, ExecResult{Outcome: ExecSuccess, Remaining: 100})
	tr = rec.onlyResponse(t)
	assert.Equal(t, Success, tr.Result)
	assert.Equal(t, byte(100), *tr.ChannelDataLen)

	rec.responses = nil
	m.Handle(command(CloseChannel, &CloseChannelParams{ChannelID: 1}))
	id = rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)
	m.Exec(id, CloseChannel, ExecResult{Outcome: ExecBipError, BipProblem: BipChannelIDNotValid})
	assert.Equal(t, BearerIndependentProtocolError, rec.onlyResponse(t).Result)
}

func TestReceiveDataOverlong(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(ReceiveData, &ReceiveDataParams{ChannelID: 1, Length: 200}))
	id := rec.lastNote(t).CommandID
	m.DisplayStatus(id, true)

	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, m.Exec(id, ReceiveData, ExecResult{Outcome: ExecSuccess, Data: data}))
	tr := rec.onlyResponse(t)
	assert.Equal(t, Success, tr.Result)
	assert.Equal(t, data[:maxChannelData], tr.ChannelData)
	assert.Equal(t, byte(300-maxChannelData), *tr.ChannelDataLen)

	b := tr.Encode()
	assert.Len(t, b, 0xff)
	assert.Equal(t, []byte{0xb6, 0x81, 0xed}, b[12:15])
	assert.Equal(t, []byte{0xb7, 0x01, 0x3f}, b[len(b)-3:])
}

func TestGetChannelStatus(t *testing.T) {
	m, rec, _, _ := newTestManager(Config{})
	m.Handle(command(GetChannelStatus, &GetChannelStatusParams{}))
	assert.Empty(t, rec.notes)
	assert.Empty(t, rec.responses)
	require.Len(t, rec.dispatches, 1)

	id := rec.dispatches[0].CommandID
	m.Exec(id, GetChannelStatus, ExecResult{Outcome: ExecSuccess})
	tr := rec.onlyResponse(t)
	assert.Equal(t, []ChannelStatus{{}}, tr.ChannelStatus)
}
