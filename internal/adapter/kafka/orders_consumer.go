package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
	"github.com/botifalho/storefront/pkg/schema"
)

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(seedBrokers []string, topic, group string) ConsumerOpt {
	return func(opts *consumerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ConsumerRawClientOpt(cl ConsumerClient) ConsumerOpt {
	return func(opts *consumerOpts) error {
		if cl == nil {
			return errors.New("consumer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ConsumerOrdersSaverOpt(s port.OrdersSaver) ConsumerOpt {
	return func(opts *consumerOpts) error {
		if s == nil {
			return errors.New("consumer orders saver is nil")
		}
		opts.oSaver = s
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(opts *consumerOpts) error {
		if decoder == nil {
			return errors.New("consumer decoder is nil")
		}
		opts.decoder = decoder
		return nil
	}
}

type consumerOpts struct {
	cl      ConsumerClient
	oSaver  port.OrdersSaver
	decoder Decoder
}

// ReceiptsConsumer drains the receipts stream and hands committed
// orders to the saver.
type ReceiptsConsumer struct {
	cl       ConsumerClient
	oSaver   port.OrdersSaver
	decoder  Decoder
	errTimer *time.Timer
}

func NewReceiptsConsumer(opts ...ConsumerOpt) (ReceiptsConsumer, error) {
	const op = "NewReceiptsConsumer"

	if len(opts) != 3 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options consumerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ReceiptsConsumer{}, opErr(err, op)
		}
	}

	return ReceiptsConsumer{
		cl:       options.cl,
		oSaver:   options.oSaver,
		decoder:  options.decoder,
		errTimer: time.NewTimer(0),
	}, nil
}

func (c ReceiptsConsumer) Close() {
	const op = "ReceiptsConsumer.Close"
	log := slog.With("op", op)

	log.Info("closing consumer...")
	c.errTimer.Stop()
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c ReceiptsConsumer) Run(ctx context.Context) {
	const op = "ReceiptsConsumer.Run"
	log := slog.With("op", op)

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume messages", "err", err)
				c.slowDown()
				continue
			}
			if err := c.commit(ctx); err != nil {
				log.Error("failed to commit offset", "err", err)
			}
		}
	}
}

func (c ReceiptsConsumer) commit(ctx context.Context) error {
	const op = "ReceiptsConsumer.commit"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (c ReceiptsConsumer) consume(ctx context.Context) error {
	const op = "ReceiptsConsumer.consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, op)
	}

	if fetches.Empty() {
		return nil
	}

	orders := c.toOrders(fetches)
	if len(orders) == 0 {
		return nil
	}

	if err := c.oSaver.SaveOrders(ctx, orders); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (c ReceiptsConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "ReceiptsConsumer.pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, op)
	}

	if err := c.handleErrs(fetches); err != nil {
		return nil, opErr(err, op)
	}

	return fetches, nil
}

func (c ReceiptsConsumer) handleErrs(fetches kgo.Fetches) error {
	var errsData []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errData := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsData = append(errsData, errData)
		}
	})

	if len(errsData) != 0 {
		return errors.New(strings.Join(errsData, "; "))
	}
	return nil
}

func (c ReceiptsConsumer) toOrders(fetches kgo.Fetches) (orders []domain.Order) {
	const op = "ReceiptsConsumer.toOrders"
	log := slog.With("op", op)

	fetches.EachRecord(func(r *kgo.Record) {
		var s schema.OrderV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			log.Error("failed to decode value", "err", opErr(err, op))
			return
		}

		o, err := c.toDomain(s)
		if err != nil {
			log.Error("failed to map order", "err", opErr(err, op))
			return
		}
		orders = append(orders, o)
	})
	return orders
}

func (c ReceiptsConsumer) toDomain(s schema.OrderV1) (domain.Order, error) {
	total, err := decimal.NewFromString(s.Total)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		OrderID:       s.OrderID,
		Total:         total,
		PaymentMethod: domain.PaymentMethod(s.PaymentMethod),
		CreatedAt:     s.CreatedAt,
	}

	o.Lines = make([]domain.OrderLine, len(s.Lines))
	for i := range s.Lines {
		unitPrice, err := decimal.NewFromString(s.Lines[i].UnitPrice)
		if err != nil {
			return domain.Order{}, err
		}
		o.Lines[i] = domain.OrderLine{
			ProductID: s.Lines[i].ProductID,
			Name:      s.Lines[i].Name,
			UnitPrice: unitPrice,
			Quantity:  s.Lines[i].Quantity,
		}
	}
	return o, nil
}

func (c ReceiptsConsumer) slowDown() {
	const timeout = 1 * time.Second
	c.errTimer.Reset(timeout)
	<-c.errTimer.C
}
