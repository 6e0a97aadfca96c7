package services

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/barnybug/gosat/config"
	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/pubsub/mqtt"
	"github.com/barnybug/gosat/util"
)

// Service interface
type Service interface {
	ID() string
	Run() error
}

// ServiceInit interface
type ServiceInit interface {
	Service
	Init() error
}

var serviceMap map[string]Service = map[string]Service{}
var enabled []Service
var Config *config.Config = config.Default()

var Publisher pubsub.Publisher
var Subscriber pubsub.Subscriber

// Ready is set once every launched service has initialised.
var Ready = util.NewEvent()

var HeartbeatInterval = 60 * time.Second

var broker *mqtt.Broker

// SetupLogging installs the global zap logger.
func SetupLogging(debug bool) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := conf.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// SetupConfig loads the configuration file, falling back to defaults when
// there is none.
func SetupConfig() error {
	conf, err := config.Open()
	if os.IsNotExist(errors.Cause(err)) {
		zap.S().Infow("no config file, using defaults", "path", config.ConfigPath("gosat.yml"))
		Config = config.Default()
		return nil
	}
	if err != nil {
		return err
	}
	Config = conf
	return nil
}

// SetupBroker connects to MQTT, or an in-process loopback broker when no
// broker url is configured.
func SetupBroker() error {
	url := Config.Endpoints.Mqtt.Broker
	if url == "" {
		zap.S().Warn("no mqtt broker configured, using loopback")
		lb := pubsub.NewLoopback()
		Publisher = lb
		Subscriber = lb
		return nil
	}

	b, err := mqtt.NewBroker(url)
	if err != nil {
		return err
	}
	broker = b
	Publisher = b.Publisher()
	Subscriber = b.Subscriber()
	zap.S().Infow("connected", "broker", url)
	return nil
}

// Launch initialises then runs the named services, returning when the first
// of them stops.
func Launch(ss []string) error {
	enabled = []Service{}
	for _, name := range ss {
		service, ok := serviceMap[name]
		if !ok {
			return errors.Errorf("service %s does not exist", name)
		}
		enabled = append(enabled, service)
	}
	if len(enabled) == 0 {
		return errors.New("no services to run")
	}

	// listen for queries
	go QuerySubscriber()

	for _, service := range enabled {
		zap.S().Infow("starting", "service", service.ID())
		if service, ok := service.(ServiceInit); ok {
			if err := service.Init(); err != nil {
				return errors.Wrapf(err, "init service %s", service.ID())
			}
			zap.S().Infow("initialized", "service", service.ID())
		}
	}
	Ready.Set()

	done := make(chan error, len(enabled))
	for _, service := range enabled {
		go Heartbeat(service.ID())
		go func(service Service) {
			err := service.Run()
			done <- errors.Wrapf(err, "running service %s", service.ID())
		}(service)
	}
	return <-done
}

// Heartbeat publishes a retained liveness event for the service every
// HeartbeatInterval, starting once the services are ready.
func Heartbeat(id string) {
	Ready.Wait()
	started := time.Now()
	for {
		Publisher.Emit(heartbeatEvent(id, started, time.Now()))
		time.Sleep(HeartbeatInterval)
	}
}

func heartbeatEvent(id string, started, now time.Time) *pubsub.Event {
	uptime := now.Sub(started)
	fields := pubsub.Fields{
		"device":      fmt.Sprintf("heartbeat.%s", id),
		"pid":         os.Getpid(),
		"started":     started.Format(time.RFC3339),
		"uptime":      int(uptime.Seconds()),
		"uptime_text": util.ShortDuration(uptime),
	}
	ev := pubsub.NewEvent("heartbeat", fields)
	ev.SetRetained(true)
	return ev
}

// Register makes a service available to Launch.
func Register(service Service) {
	if _, exists := serviceMap[service.ID()]; exists {
		panic(fmt.Sprintf("duplicate service registered: %s", service.ID()))
	}
	serviceMap[service.ID()] = service
}

// Services lists the registered service names.
func Services() []string {
	m := map[string]interface{}{}
	for name, service := range serviceMap {
		m[name] = service
	}
	return util.SortedKeys(m)
}

func Shutdown() {
	if broker != nil {
		broker.Disconnect()
	}
	zap.L().Sync()
}
