package token

// Builder assembles a Sign call step by step.
//
//	tok, err := m.Builder().
//		Audience("auth:web").
//		Subject(userID).
//		Data("role", token.String("admin")).
//		ExpiresIn(token.DurationString("15m")).
//		Sign()
type Builder struct {
	m         *Manager
	expiresIn Duration
	opts      signOptions
}

// Builder returns a fresh builder. Without ExpiresIn the manager default TTL applies.
func (m *Manager) Builder() *Builder {
	return &Builder{m: m}
}

func (b *Builder) ExpiresIn(d Duration) *Builder {
	b.expiresIn = d
	return b
}

func (b *Builder) NotBefore(d Duration) *Builder {
	b.opts.notBefore = d
	return b
}

func (b *Builder) Audience(aud string) *Builder {
	b.opts.audience = aud
	return b
}

func (b *Builder) Subject(sub string) *Builder {
	b.opts.subject = sub
	return b
}

// Data sets a single data field, keeping insertion order.
func (b *Builder) Data(key string, v Value) *Builder {
	if b.opts.data == nil {
		b.opts.data = NewMap()
	}
	b.opts.data.Set(key, v)
	return b
}

// Header sets a single extra header field. Reserved names fail at Sign.
func (b *Builder) Header(key string, v Value) *Builder {
	if b.opts.header == nil {
		b.opts.header = NewMap()
	}
	b.opts.header.Set(key, v)
	return b
}

// Sign issues the token.
func (b *Builder) Sign() (string, error) {
	o := b.opts
	return b.m.Sign(b.expiresIn, func(dst *signOptions) { *dst = o })
}
