package npc

// bark shows a random line for the current state every Barks.Interval
// seconds. Entering a state resets the timer so its first line shows
// straight away.
func (m *Machine) bark(dt float64) {
	sink := m.deps.Barks
	if sink == nil || m.inDialogue || m.cfg.Barks.Interval <= 0 {
		return
	}
	lines := m.cfg.Barks.Lines(m.state)
	if len(lines) == 0 {
		return
	}
	m.barkTimer -= dt
	if m.barkTimer > 0 {
		return
	}
	sink.Show(m.speakerName(), lines[m.rng.Intn(len(lines))], m.cfg.Barks.Interval)
	m.barkTimer = m.cfg.Barks.Interval
}
