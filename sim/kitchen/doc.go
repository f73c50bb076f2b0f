// Package kitchen is the boiling-water world: a pot that can be carried between
// the table, the faucet and the stove, a faucet and a stove that can be
// toggled, and the passive dynamics of filling, overfilling and boiling.
//
// Every law is a sim.CausalProcess. The agent's own actions are processes too:
// issuing "toggle_faucet" only marks the state, and the ToggleFaucet process
// flips the faucet a sampled number of ticks later.
package kitchen
