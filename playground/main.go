package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/a-peyrard/objgraph"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// -------------------------------------- PLAYGROUND CODE --------------------------------------
// small car factory illustrating the object graph API, run with LOG_LEVEL=trace to see
// every construction and OBJGRAPH_VERBOSE_ERRORS=true to get full error chains

func NewLogger() (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if levelFromEnv := os.Getenv("LOG_LEVEL"); levelFromEnv != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(levelFromEnv))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %s: %w", levelFromEnv, err)
		}
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

type Engine struct {
	Cylinders int
}

func NewEngine(cylinders int) *Engine {
	return &Engine{Cylinders: cylinders}
}

type Wheel struct {
	Position string
}

func NewWheel(position string) *Wheel {
	return &Wheel{Position: position}
}

type Car struct {
	Brand  string
	Engine *Engine
	Wheels []*Wheel
}

func NewCar(brand string, engine *Engine, provideWheel objgraph.ProviderWithArgs[*Wheel]) (*Car, error) {
	car := &Car{Brand: brand, Engine: engine}
	for _, position := range []string{"front-left", "front-right", "rear-left", "rear-right"} {
		wheel, err := provideWheel(objgraph.Kwargs{"position": position})
		if err != nil {
			return nil, err
		}
		car.Wheels = append(car.Wheels, wheel)
	}
	return car, nil
}

type carSpec struct{}

func (s *carSpec) Configure(b *objgraph.Binder) error {
	return b.Bind(
		objgraph.Key("wheel"),
		objgraph.ToClass(objgraph.MustClass(NewWheel, objgraph.Args("position"), objgraph.Direct("position"))),
		objgraph.InScope(objgraph.Prototype),
	)
}

func (s *carSpec) Providers() []*objgraph.ProviderMethod {
	return []*objgraph.ProviderMethod{
		objgraph.Provides(s.ProvideBrand),
	}
}

func (s *carSpec) ProvideBrand() string {
	return "Volvo"
}

func main() {
	logger, err := NewLogger()
	if err != nil {
		panic(err)
	}

	settings, err := objgraph.LoadSettings("OBJGRAPH")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load settings")
	}

	conf := viper.New()
	conf.SetDefault("cylinders", 4)

	graph, err := objgraph.New(
		objgraph.WithClasses(
			objgraph.MustClass(NewEngine, objgraph.Args("cylinders")),
			objgraph.MustClass(NewCar, objgraph.Args("brand", "engine", "provide_wheel")),
		),
		objgraph.WithBindingSpecs(&carSpec{}, &objgraph.ViperSpec{Viper: conf, Keys: []string{"cylinders"}}),
		objgraph.WithSettings(settings),
		objgraph.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create the object graph")
	}
	defer func() {
		if err := graph.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close the object graph")
		}
	}()

	logger.Debug().Msg(graph.Describe())

	car, err := objgraph.Provide[*Car](graph)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build a car")
	}
	logger.Info().
		Str("brand", car.Brand).
		Int("cylinders", car.Engine.Cylinders).
		Int("wheels", len(car.Wheels)).
		Msg("car built")
}
