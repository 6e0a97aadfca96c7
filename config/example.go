package config

var ExampleYaml = `
endpoints:
  mqtt:
    broker: tcp://127.0.0.1:1883
sat:
  capacity: 4
  icons: true
  defer_session_end: true
  display_duration: 10s
  tone_duration: 500ms
  owners: [cp0, cp1]
  language: de
store:
  kind: memory
modem:
  device: /dev/ttyUSB2
  baud: 9600
sms:
  device: /dev/ttyUSB3
watchdog:
  services: [sat, modem]
  timeout: 5m
  target: sms
  remote: "+447700900123"
`

var ExampleConfig *Config

func init() {
	var err error
	ExampleConfig, err = OpenRaw([]byte(ExampleYaml))
	if err != nil {
		panic(err)
	}
}
