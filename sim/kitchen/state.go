package kitchen

import "github.com/causal-sim/causal-sim/sim"

// State fields.
const (
	Boiling      = "boiling"
	PotLocation  = "pot_location"
	StoveOn      = "stove_on"
	FaucetOn     = "faucet_on"
	PotFilled    = "pot_filled"
	WaterSpilled = "water_spilled"
)

// Pot locations.
const (
	Table  = "table"
	Faucet = "faucet"
	Stove  = "stove"
)

// Action names carried by the transient action field.
const (
	ActToggleFaucet = "toggle_faucet"
	ActToggleStove  = "toggle_stove"
	ActMoveToFaucet = "move_to_faucet"
	ActMoveToStove  = "move_to_stove"
	ActNoop         = "noop"
)

// Schema lists the kitchen fields in declaration order with their initial values.
func Schema() []sim.Field {
	return []sim.Field{
		{Name: Boiling, Value: false},
		{Name: PotLocation, Value: Table},
		{Name: StoveOn, Value: false},
		{Name: FaucetOn, Value: false},
		{Name: PotFilled, Value: false},
		{Name: WaterSpilled, Value: false},
		{Name: sim.ActionField, Value: nil},
	}
}

// InitialState is the pot on the table, empty, with everything off.
func InitialState() sim.State {
	s, err := sim.NewState(Schema()...)
	if err != nil {
		// Schema is static
		panic(err)
	}
	return s
}

func underRunningWater(s sim.State) bool {
	return s.Str(PotLocation) == Faucet && s.Bool(FaucetOn)
}

func onLitStove(s sim.State) bool {
	return s.Str(PotLocation) == Stove && s.Bool(StoveOn)
}

func filling(s sim.State) bool {
	return underRunningWater(s) && !s.Bool(PotFilled)
}

func overflowing(s sim.State) bool {
	return underRunningWater(s) && s.Bool(PotFilled) && !s.Bool(WaterSpilled)
}

func heating(s sim.State) bool {
	return onLitStove(s) && s.Bool(PotFilled) && !s.Bool(Boiling)
}
