package config

// ApplyDefaults fills ServerConfig zero values.
func (s *ServerConfig) ApplyDefaults() {
	if s.ListenAddr == "" {
		s.ListenAddr = ":14430"
	}
	if s.Path == "" {
		s.Path = "/vis"
	}
	if s.MaxMessageBytes <= 0 {
		s.MaxMessageBytes = 64 << 10
	}
	if s.WriteTimeoutSeconds <= 0 {
		s.WriteTimeoutSeconds = 10
	}
	if s.RequestsPerSecond <= 0 {
		s.RequestsPerSecond = 100
	}
	if s.RequestBurst <= 0 {
		s.RequestBurst = 200
	}
}

// ApplyDefaults fills TokenConfig zero values.
func (t *TokenConfig) ApplyDefaults() {
	if t.TTL <= 0 {
		t.TTL = 1800
	}
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = 10
	}
	if t.AttemptWindow <= 0 {
		t.AttemptWindow = 900
	}
}

// ApplyDefaults fills MetricsConfig zero values.
func (m *MetricsConfig) ApplyDefaults() {
	if m.Addr == "" {
		m.Addr = ":9090"
	}
}

// ApplyDefaults fills TracingConfig zero values.
func (t *TracingConfig) ApplyDefaults() {
	if t.Exporter == "" {
		t.Exporter = "stdout"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 1.0
	}
}

// ApplyDefaults fills KafkaConfig zero values.
func (k *KafkaConfig) ApplyDefaults() {
	if k.Topic == "" {
		k.Topic = "vehicle.signals"
	}
	if k.ConsumerGroup == "" {
		k.ConsumerGroup = "vis-server"
	}
}
