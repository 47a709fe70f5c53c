package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/promise"
)

type Recognizer interface {
	Recognize(ctx context.Context, req domain.RecognizeTextRequest) *promise.Promise[domain.Outcome]
}

type Sharer interface {
	Share(ctx context.Context, req domain.ShareFileRequest) *promise.Promise[domain.Outcome]
}

// Observer is told about every settled call.
type Observer interface {
	ObserveOutcome(channel, method string, out domain.Outcome, elapsed time.Duration)
}

type route func(ctx context.Context, args Arguments) *promise.Promise[domain.Outcome]

// Dispatcher routes a named method call to its adapter.
type Dispatcher struct {
	routes   map[domain.Method]route
	observer Observer
	log      zerolog.Logger
}

// NewDispatcher wires both methods. observer may be nil.
func NewDispatcher(rec Recognizer, sh Sharer, observer Observer, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		routes:   make(map[domain.Method]route, 2),
		observer: observer,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
	d.routes[domain.MethodRecognizeText] = func(ctx context.Context, args Arguments) *promise.Promise[domain.Outcome] {
		req, err := decodeRecognizeText(args)
		if err != nil {
			return promise.Resolved(invalidArgument(err))
		}
		return rec.Recognize(ctx, req)
	}
	d.routes[domain.MethodShareFile] = func(ctx context.Context, args Arguments) *promise.Promise[domain.Outcome] {
		req, err := decodeShareFile(args)
		if err != nil {
			return promise.Resolved(invalidArgument(err))
		}
		return sh.Share(ctx, req)
	}
	return d
}

// Dispatch never blocks on the capability; the returned promise settles
// exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, args any) *promise.Promise[domain.Outcome] {
	return d.dispatch(ctx, "", method, args, nil)
}

func (d *Dispatcher) dispatch(ctx context.Context, channel, method string, args any, allowed map[domain.Method]struct{}) *promise.Promise[domain.Outcome] {
	start := time.Now()
	var p *promise.Promise[domain.Outcome]

	r, ok := d.routes[domain.Method(method)]
	if ok && allowed != nil {
		_, ok = allowed[domain.Method(method)]
	}
	switch {
	case !ok:
		p = promise.Resolved(domain.NotImplemented())
	default:
		parsed, err := ParseArguments(args)
		if err != nil {
			p = promise.Resolved(invalidArgument(err))
		} else {
			p = r(ctx, parsed)
		}
	}

	if _, settled := p.Value(); settled {
		d.report(channel, method, p, start)
	} else {
		go func() {
			<-p.Done()
			d.report(channel, method, p, start)
		}()
	}
	return p
}

func (d *Dispatcher) report(channel, method string, p *promise.Promise[domain.Outcome], start time.Time) {
	out, _ := p.Value()
	elapsed := time.Since(start)

	ev := d.log.Debug()
	if out.Kind == domain.OutcomeFailure && out.Err != nil {
		ev = d.log.Info().Str("detail", out.Err.Message)
	}
	ev.Str("channel", channel).
		Str("method", method).
		Str("result", out.Label()).
		Dur("elapsed", elapsed).
		Msg("call settled")

	if d.observer != nil {
		d.observer.ObserveOutcome(channel, method, out, elapsed)
	}
}

// Channel is a named view of the dispatcher that only routes its own methods.
type Channel struct {
	name    string
	d       *Dispatcher
	methods map[domain.Method]struct{}
}

func (d *Dispatcher) Channel(name string, methods ...domain.Method) *Channel {
	m := make(map[domain.Method]struct{}, len(methods))
	for _, method := range methods {
		m[method] = struct{}{}
	}
	return &Channel{name: name, d: d, methods: m}
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Dispatch(ctx context.Context, method string, args any) *promise.Promise[domain.Outcome] {
	return c.d.dispatch(ctx, c.name, method, args, c.methods)
}
