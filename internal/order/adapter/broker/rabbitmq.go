package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/xpkg/config"
	"cafe-orders/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange   = "orders"
	routingKey = "order.created"
)

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           *sync.Mutex
}

// New creates the RabbitMQ adapter used to announce committed orders.
func New(
	ctx context.Context,
	rabbitmqCfg config.RabbitMQ,
	mylog logger.Logger,
) (core.IBroker, error) {
	r := &RabbitMQ{
		ctx:          ctx,
		cfg:          rabbitmqCfg,
		mylog:        mylog,
		mu:           &sync.Mutex{},
		reconnecting: false,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := ch.Confirm(false); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return core.ErrMBConn
	}

	if r.ch == nil || r.ch.IsClosed() {
		return core.ErrMBCh
	}

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}

	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

func (r *RabbitMQ) PushMessage(ctx context.Context, message dto.OrderCreatedMessage) error {
	log := r.mylog.With("action", "pushMessage")

	if r.conn.IsClosed() {
		log.Error("connection between rabbitmq is closed", fmt.Errorf("closed conn"))
		go r.reconnect(r.ctx)
		return fmt.Errorf("rabbitmq: connection lost")
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	t := time.NewTicker(time.Second * core.MBReconnInterval)
	log := r.mylog.With("action", "rabbitmq-reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				r.mu.Lock()
				r.reconnecting = false
				r.mu.Unlock()
				log.Info("rabbitmq reconnected!")
				return
			}
			log.Info("rabbitmq failed to reconnect")

		case <-ctx.Done():
			t.Stop()
			return
		}
	}
}
