package solver

import "testing"

func benchStepper(b *testing.B, s Stepper) {
	sys := oscillator{}
	x := []float64{1, 0}
	var err error

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, err = s.Step(sys, x, 0, 0.01)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEuler(b *testing.B)    { benchStepper(b, NewEuler()) }
func BenchmarkMidpoint(b *testing.B) { benchStepper(b, NewMidpoint()) }
func BenchmarkHeun(b *testing.B)     { benchStepper(b, NewHeun()) }
func BenchmarkRK4(b *testing.B)      { benchStepper(b, NewRK4()) }
