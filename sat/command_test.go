package sat

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleDuration_Milliseconds() {
	fmt.Println((&Duration{Unit: Minutes, Interval: 2}).Milliseconds())
	fmt.Println((&Duration{Unit: Seconds, Interval: 3}).Milliseconds())
	fmt.Println((&Duration{Unit: Tenths, Interval: 4}).Milliseconds())
	fmt.Println((&Duration{Unit: 0x03, Interval: 5}).Milliseconds())
	var none *Duration
	fmt.Println(none.Milliseconds())
	// Output:
	// 120000
	// 3000
	// 400
	// 0
	// 0
}

func ExampleTerminalResponse_Encode() {
	cmd := Command{Header: Header{Number: 1, Type: DisplayText, Qualifier: 0x80}}
	tr := newResponse(&cmd, 0, MeUnableToProcessCommand)
	tr.MeProblem = MeScreenBusy
	fmt.Printf("% x\n", tr.Encode())
	// Output:
	// 81 03 01 21 80 82 02 82 81 83 02 20 01
}

func TestTLVLengths(t *testing.T) {
	cases := []struct {
		n      int
		header []byte
	}{
		{0, []byte{0xb6, 0x00}},
		{0x7f, []byte{0xb6, 0x7f}},
		{0x80, []byte{0xb6, 0x81, 0x80}},
		{0xff, []byte{0xb6, 0x81, 0xff}},
		{300, []byte{0xb6, 0x82, 0x01, 0x2c}},
	}
	for _, c := range cases {
		b := appendTLV(nil, tagChannelData, make([]byte, c.n)...)
		assert.Equal(t, c.header, b[:len(c.header)], "length %d", c.n)
		assert.Len(t, b, len(c.header)+c.n)
	}
}

func TestParseCommand(t *testing.T) {
	data := `{"owner":"cp0","number":3,"type":"display_text","qualifier":129,
		"device":{"src":129,"dest":2},
		"params":{"text":"Hello","clear_type":1,"icon":{"id":4,"self_explanatory":true},
		"duration":{"unit":1,"interval":5}}}`
	cmd, err := ParseCommand([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "cp0", cmd.Owner)
	assert.Equal(t, byte(3), cmd.Number)
	assert.Equal(t, DisplayText, cmd.Type)
	p, ok := cmd.Params.(*DisplayTextParams)
	require.True(t, ok)
	assert.Equal(t, "Hello", p.Text)
	assert.Equal(t, WaitForUserToClear, p.ClearType)
	assert.Equal(t, &Icon{ID: 4, SelfExplanatory: true}, p.Icon)
	assert.Equal(t, 5000, p.Duration.Milliseconds())
}

func TestParseCommandUnknownType(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"owner":"cp0","type":"submit_multimedia","params":{}}`))
	require.NoError(t, err)
	assert.Equal(t, Unsupported, cmd.Type)
	assert.IsType(t, &UnsupportedParams{}, cmd.Params)
}

func TestParseCommandBadParams(t *testing.T) {
	_, err := ParseCommand([]byte(`{"type":"select_item","params":{"items":"x"}}`))
	assert.Error(t, err)
}

func TestCommandRoundTrip(t *testing.T) {
	cmd := command(SetupEventList, &SetupEventListParams{Events: []EventType{EventUserActivity, EventChannelStatus}})
	b, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"events":["user_activity","channel_status"]`)

	back, err := ParseCommand(b)
	require.NoError(t, err)
	assert.Equal(t, cmd, back)
}

func TestResultText(t *testing.T) {
	assert.True(t, SuccessWithModification.IsSuccess())
	assert.False(t, BackwardMoveByUser.IsSuccess())
	var r Result
	require.NoError(t, r.UnmarshalText([]byte(NoResponseFromUser.String())))
	assert.Equal(t, NoResponseFromUser, r)
}
