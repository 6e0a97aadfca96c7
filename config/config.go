package config

import (
	"io"
	"io/ioutil"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/barnybug/gosat/util"
)

type EndpointsConf struct {
	Mqtt struct {
		Broker string
	}
}

type Duration struct {
	Duration time.Duration
}

// UnmarshalYAML accepts Go durations ("1m30s") and the longer units
// understood by util.ParseDuration ("2d").
func (self *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	val, err := time.ParseDuration(s)
	if err != nil {
		val, err = util.ParseDuration(s)
	}
	if err != nil {
		return errors.Errorf("invalid duration: %q", s)
	}
	self.Duration = val
	return nil
}

type SatConf struct {
	Capacity        int
	Icons           bool
	DeferSessionEnd bool     `yaml:"defer_session_end"`
	DisplayDuration Duration `yaml:"display_duration"`
	HelpDuration    Duration `yaml:"help_duration"`
	ToneDuration    Duration `yaml:"tone_duration"`
	Owners          []string
	Language        string
}

// Serves reports whether owner is one of the configured modems. An empty
// list serves every owner.
func (self SatConf) Serves(owner string) bool {
	if len(self.Owners) == 0 {
		return true
	}
	for _, o := range self.Owners {
		if o == owner {
			return true
		}
	}
	return false
}

type StoreConf struct {
	Kind    string
	Path    string
	Address string
}

type ModemConf struct {
	Device string
	Baud   int
	Owner  string
}

type SMSConf struct {
	Device string
	Baud   int
}

type WatchdogConf struct {
	// Services whose heartbeats are watched.
	Services []string
	Timeout  Duration
	// Alerts are sent as "alert" events to Target, eg "sms" with Remote set
	// to a telephone number.
	Target string
	Remote string
}

// Configuration structure
type Config struct {
	Endpoints EndpointsConf
	Sat       SatConf
	Store     StoreConf
	Modem     ModemConf
	SMS       SMSConf `yaml:"sms"`
	Watchdog  WatchdogConf
}

// Open configuration from disk.
func Open() (*Config, error) {
	file, err := os.Open(ConfigPath("gosat.yml"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := &Config{}
	err := yaml.Unmarshal(data, self)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	self.setDefaults()
	return self, nil
}

// Default is the configuration used when no file exists.
func Default() *Config {
	self := &Config{}
	self.setDefaults()
	return self
}

func (self *Config) setDefaults() {
	if url := os.Getenv("GOSAT_MQTT"); url != "" {
		self.Endpoints.Mqtt.Broker = url
	}

	sat := &self.Sat
	if sat.Capacity <= 0 {
		sat.Capacity = 10
	}
	if sat.DisplayDuration.Duration == 0 {
		sat.DisplayDuration.Duration = 15 * time.Second
	}
	if sat.HelpDuration.Duration == 0 {
		sat.HelpDuration.Duration = 7 * time.Second
	}
	if sat.ToneDuration.Duration == 0 {
		sat.ToneDuration.Duration = time.Second
	}
	if sat.Language == "" {
		sat.Language = "en"
	}

	if self.Store.Kind == "" {
		self.Store.Kind = "file"
	}
	if self.Store.Path == "" {
		self.Store.Path = ConfigPath("store.yml")
	}
	self.Store.Path = util.ExpandUser(self.Store.Path)
	if self.Store.Address == "" {
		self.Store.Address = "localhost:6379"
	}

	if self.Modem.Baud == 0 {
		self.Modem.Baud = 115200
	}
	if self.Modem.Owner == "" {
		self.Modem.Owner = "cp0"
	}
	self.Modem.Device = util.ExpandUser(self.Modem.Device)
	if self.SMS.Baud == 0 {
		self.SMS.Baud = 115200
	}
	self.SMS.Device = util.ExpandUser(self.SMS.Device)

	if self.Watchdog.Timeout.Duration == 0 {
		// two missed heartbeats
		self.Watchdog.Timeout.Duration = 121 * time.Second
	}
}

// helpers

// Resolve a configuration file under .config/gosat
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "gosat", p)
}
