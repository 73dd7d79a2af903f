package scene

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/san-kum/mbdsim/internal/config"
)

func TestBuildAllScenarios(t *testing.T) {
	for _, name := range Names() {
		cfg := config.DefaultConfig()
		cfg.Scenario = name
		sc, err := Build(cfg)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sc.Name, test.ShouldEqual, name)
		test.That(t, sc.Mechanism, test.ShouldNotBeNil)
		test.That(t, len(sc.Initial), test.ShouldEqual, sc.Mechanism.StateDim())
		test.That(t, len(sc.Channels), test.ShouldBeGreaterThan, 0)
		for _, ch := range sc.Channels {
			test.That(t, ch.Index, test.ShouldBeLessThan, len(sc.Initial))
		}
	}
}

func TestBuildUnknownScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "teapot"
	_, err := Build(cfg)
	test.That(t, errors.Is(err, ErrUnknownScenario), test.ShouldBeTrue)
}

func TestPendulumInitialState(t *testing.T) {
	cfg := config.Preset("pendulum", "large")
	sc, err := Build(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.Initial[0], test.ShouldEqual, 2.5)
}

func TestCarSceneExposesControl(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "car"
	cfg.InitState.Speed = 10
	sc, err := Build(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.Car, test.ShouldNotBeNil)
	test.That(t, sc.Car.Speed(sc.Initial), test.ShouldEqual, 10.0)
}

func TestBrickTumbleSeed(t *testing.T) {
	cfg := config.Preset("brick", "tumble")
	sc, err := Build(cfg)
	test.That(t, err, test.ShouldBeNil)

	// unit quaternion, raised, spinning about y
	test.That(t, sc.Initial[0], test.ShouldEqual, 1.0)
	test.That(t, sc.Initial[6], test.ShouldEqual, 5.0)
	test.That(t, sc.Initial[8], test.ShouldEqual, 4.0)
}
