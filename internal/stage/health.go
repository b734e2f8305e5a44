package stage

// Health is the result of a stage readiness probe.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy builds a passing Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true, Detail: "ok"}
}

// Unhealthy builds a failing Health record with the failure reason.
func Unhealthy(name string, err error) Health {
	detail := "unavailable"
	if err != nil {
		detail = err.Error()
	}
	return Health{Name: name, Ready: false, Detail: detail}
}
