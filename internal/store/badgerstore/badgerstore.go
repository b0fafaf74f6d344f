// Package badgerstore implements store.Store on an embedded Badger key-value
// database. Records are JSON documents keyed by collection prefix and id.
package badgerstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

const (
	itemPrefix    = "item:"
	menuPrefix    = "menu:"
	orderPrefix   = "order:"
	historyPrefix = "history:"
	sequenceKey   = "meta:seq"
)

type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *logger.Logger
}

// document wraps a record with its insertion sequence so listings keep
// creation order.
type document[T any] struct {
	Seq    uint64 `json:"seq"`
	Record T      `json:"record"`
}

// Open opens the database at path. An empty path keeps everything in memory.
func Open(path string, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), 100)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to lease sequence: %w", err)
	}

	return &Store{db: db, seq: seq, logger: log}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Error("badger_close", "Failed to release sequence", "shutdown", err, nil)
	}
	return s.db.Close()
}

// Menu items

func (s *Store) CreateItem(ctx context.Context, item *models.MenuItem) error {
	rec := *item
	rec.ID = uuid.NewString()
	if err := s.insert(itemPrefix+rec.ID, rec); err != nil {
		return models.WrapStorage("create item", err)
	}
	item.ID = rec.ID
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var doc document[models.MenuItem]
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, itemPrefix+id, &doc)
	})
	if err != nil {
		return nil, models.WrapStorage("get item", err)
	}
	return &doc.Record, nil
}

func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	items, err := list[models.MenuItem](s.db, itemPrefix, nil)
	if err != nil {
		return nil, models.WrapStorage("list items", err)
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error) {
	var doc document[models.MenuItem]
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, itemPrefix+id, &doc); err != nil {
			return err
		}
		doc.Record = patch.Apply(doc.Record)
		return put(txn, itemPrefix+id, doc)
	})
	if err != nil {
		return nil, models.WrapStorage("update item", err)
	}
	return &doc.Record, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) (bool, error) {
	deleted, err := s.remove(itemPrefix + id)
	return deleted, models.WrapStorage("delete item", err)
}

// Menus

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	rec := *menu
	rec.ID = uuid.NewString()
	rec.Date = rec.Date.UTC()
	if err := s.insert(menuPrefix+rec.ID, rec); err != nil {
		return models.WrapStorage("create menu", err)
	}
	menu.ID = rec.ID
	return nil
}

func (s *Store) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	var doc document[models.Menu]
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, menuPrefix+id, &doc)
	})
	if err != nil {
		return nil, models.WrapStorage("get menu", err)
	}
	return &doc.Record, nil
}

func (s *Store) GetMenuByDate(ctx context.Context, from, to time.Time) (*models.Menu, error) {
	menus, err := s.ListMenusBetween(ctx, from, to)
	if err != nil {
		return nil, models.WrapStorage("get menu by date", err)
	}
	if len(menus) == 0 {
		return nil, models.ErrNotFound
	}
	return &menus[0], nil
}

func (s *Store) ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error) {
	menus, err := list(s.db, menuPrefix, func(m models.Menu) bool {
		return !m.Date.Before(from) && m.Date.Before(to)
	})
	if err != nil {
		return nil, models.WrapStorage("list menus between", err)
	}
	return menus, nil
}

func (s *Store) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus, err := list[models.Menu](s.db, menuPrefix, nil)
	if err != nil {
		return nil, models.WrapStorage("list menus", err)
	}
	return menus, nil
}

func (s *Store) DeleteMenu(ctx context.Context, id string) (bool, error) {
	deleted, err := s.remove(menuPrefix + id)
	return deleted, models.WrapStorage("delete menu", err)
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	rec := *order
	rec.ID = uuid.NewString()
	rec.Date = rec.Date.UTC()

	seq, err := s.seq.Next()
	if err != nil {
		return models.WrapStorage("create order", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := put(txn, orderPrefix+rec.ID, document[models.Order]{Seq: seq, Record: rec}); err != nil {
			return err
		}
		return put(txn, historyKey(rec.ID, seq), models.StatusChange{
			OrderID:   rec.ID,
			NewStatus: rec.Status,
			ChangedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return models.WrapStorage("create order", err)
	}
	order.ID = rec.ID
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var doc document[models.Order]
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, orderPrefix+id, &doc)
	})
	if err != nil {
		return nil, models.WrapStorage("get order", err)
	}
	return &doc.Record, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := list[models.Order](s.db, orderPrefix, nil)
	if err != nil {
		return nil, models.WrapStorage("list orders", err)
	}
	return orders, nil
}

func (s *Store) ListOrdersByMenu(ctx context.Context, menuID string) ([]models.Order, error) {
	orders, err := list(s.db, orderPrefix, func(o models.Order) bool {
		return o.MenuID == menuID
	})
	if err != nil {
		return nil, models.WrapStorage("list orders by menu", err)
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, check store.TransitionCheck) (*models.Order, error) {
	seq, err := s.seq.Next()
	if err != nil {
		return nil, models.WrapStorage("update order status", err)
	}

	var doc document[models.Order]
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, orderPrefix+id, &doc); err != nil {
			return err
		}
		old := doc.Record.Status
		if check != nil {
			if err := check(old); err != nil {
				return err
			}
		}
		doc.Record.Status = status
		if err := put(txn, orderPrefix+id, doc); err != nil {
			return err
		}
		return put(txn, historyKey(id, seq), models.StatusChange{
			OrderID:   id,
			OldStatus: old,
			NewStatus: status,
			ChangedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, models.WrapStorage("update order status", err)
	}
	return &doc.Record, nil
}

func (s *Store) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	history := []models.StatusChange{}
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(orderPrefix + id)); err != nil {
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(historyPrefix + id + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var change models.StatusChange
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &change)
			})
			if err != nil {
				return err
			}
			history = append(history, change)
		}
		return nil
	})
	if err != nil {
		return nil, models.WrapStorage("order history", notFound(err))
	}
	return history, nil
}

// insert stores rec under key with the next insertion sequence
func (s *Store) insert(key string, rec interface{}) error {
	seq, err := s.seq.Next()
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return put(txn, key, document[interface{}]{Seq: seq, Record: rec})
	})
}

func (s *Store) remove(key string) (bool, error) {
	deleted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		deleted = true
		return txn.Delete([]byte(key))
	})
	return deleted, err
}

func get(txn *badger.Txn, key string, dst interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return notFound(err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func put(txn *badger.Txn, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// list decodes every document under prefix that passes keep, in insertion order
func list[T any](db *badger.DB, prefix string, keep func(T) bool) ([]T, error) {
	var docs []document[T]
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var doc document[T]
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return err
			}
			if keep == nil || keep(doc.Record) {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Record)
	}
	return out, nil
}

// historyKey sorts entries of one order by sequence
func historyKey(orderID string, seq uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return historyPrefix + orderID + ":" + string(buf[:])
}

func notFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.ErrNotFound
	}
	return err
}

// badgerLogger routes badger's internal logging through the service logger
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error("badger", fmt.Sprintf(format, args...), "", nil, nil)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Info("badger", fmt.Sprintf(format, args...), "", map[string]interface{}{"level": "warning"})
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug("badger", fmt.Sprintf(format, args...), "", nil)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug("badger", fmt.Sprintf(format, args...), "", nil)
}
