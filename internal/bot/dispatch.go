package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	applog "tireshop/internal/log"
)

// Dispatcher hands inbound updates to a bounded worker pool. The webhook
// endpoint enqueues and acknowledges immediately; workers process in the
// background. Updates are sharded by sender, so one user's messages are
// handled strictly in arrival order while different users still run in
// parallel. Drain makes completion observable for tests.
type Dispatcher struct {
	queues []chan tgbotapi.Update
	handle func(tgbotapi.Update)

	pending sync.WaitGroup
	done    sync.WaitGroup
	once    sync.Once
}

func NewDispatcher(workers, depth int, handle func(tgbotapi.Update)) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 64
	}
	queues := make([]chan tgbotapi.Update, workers)
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, depth)
	}
	return &Dispatcher{queues: queues, handle: handle}
}

func (d *Dispatcher) Start() {
	for _, q := range d.queues {
		q := q
		d.done.Add(1)
		go func() {
			defer d.done.Done()
			for u := range q {
				d.handle(u)
				d.pending.Done()
			}
		}()
	}
}

// shardKey picks the serialization key: the sending user, falling back
// to the chat and finally the update id for updates with neither.
func shardKey(u tgbotapi.Update) uint64 {
	if u.CallbackQuery != nil && u.CallbackQuery.From != nil {
		return uint64(u.CallbackQuery.From.ID)
	}
	if u.Message != nil {
		if u.Message.From != nil {
			return uint64(u.Message.From.ID)
		}
		if u.Message.Chat != nil {
			return uint64(u.Message.Chat.ID)
		}
	}
	return uint64(u.UpdateID)
}

// Enqueue is non-blocking; a full shard drops the update and reports
// false. The caller still acks the platform either way.
func (d *Dispatcher) Enqueue(u tgbotapi.Update) bool {
	d.pending.Add(1)
	q := d.queues[shardKey(u)%uint64(len(d.queues))]
	select {
	case q <- u:
		return true
	default:
		d.pending.Done()
		applog.Event("dispatch.queue_full", map[string]any{"update_id": u.UpdateID})
		return false
	}
}

// Drain blocks until every enqueued update has been handled.
func (d *Dispatcher) Drain() { d.pending.Wait() }

// Stop drains the queues and shuts the workers down.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.pending.Wait()
		for _, q := range d.queues {
			close(q)
		}
		d.done.Wait()
	})
}
