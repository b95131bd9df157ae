//Package driver polls a set of configured read specifications and
//logs the values they yield
package driver

import (
	"time"

	"github.com/baetyl/baetyl-go/v2/log"

	"github.com/baclab/bacsync/bacsync"
)

type Poller struct {
	cfg    *Config
	reader *bacsync.Reader
	log    *log.Logger
	done   chan struct{}
}

func NewPoller(cfg *Config, reader *bacsync.Reader) *Poller {
	return &Poller{
		cfg:    cfg,
		reader: reader,
		log:    log.L().With(log.Any("module", "driver")),
		done:   make(chan struct{}),
	}
}

//Run polls all configured points once per interval until Close is
//called. Points are read sequentially: the reader serializes the
//exchanges anyway
func (p *Poller) Run() {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	p.pollOnce()
	for {
		select {
		case <-ticker.C:
			p.pollOnce()
		case <-p.done:
			p.log.Warn("poller stopped")
			return
		}
	}
}

func (p *Poller) Close() {
	close(p.done)
}

func (p *Poller) pollOnce() {
	for _, point := range p.cfg.Points {
		value, err := p.read(point)
		if err != nil {
			p.log.Error("failed to read point", log.Any("point", point.Name), log.Error(err))
			continue
		}
		p.log.Info("point value", log.Any("point", point.Name), log.Any("value", value))
	}
}

func (p *Poller) read(point Point) (interface{}, error) {
	if point.Multiple {
		return p.reader.ReadMultiple(point.Spec)
	}
	return p.reader.Read(point.Spec)
}
