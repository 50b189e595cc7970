package realtime

import (
	"fmt"
	"reflect"

	"eventhub/models"

	"gorm.io/gorm"
)

// RegisterCallbacks publishes a Change to hub after every successful create,
// update or delete on a model implementing models.FeedRow.
func RegisterCallbacks(db *gorm.DB, hub *Hub) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("realtime:after_create", publisher(hub, OpInsert)); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}
	if err := cb.Update().After("gorm:update").Register("realtime:after_update", publisher(hub, OpUpdate)); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("realtime:after_delete", publisher(hub, OpDelete)); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}
	return nil
}

func publisher(hub *Hub, op Op) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.RowsAffected == 0 || tx.Statement.Schema == nil {
			return
		}
		sch := tx.Statement.Schema
		if _, ok := reflect.New(sch.ModelType).Interface().(models.FeedRow); !ok {
			return
		}

		table := tx.Statement.Table
		if table == "" {
			table = sch.Table
		}

		rows := feedRows(tx)
		if rows == nil {
			hub.Publish(Change{Table: table, Op: op})
			return
		}

		seen := make(map[string]bool, len(rows))
		for _, keys := range rows {
			sig := fmt.Sprint(keys)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			hub.Publish(Change{Table: table, Op: op, Keys: keys})
		}
	}
}

// feedRows returns the filter keys of every row in the statement, or nil if
// any row has no primary key (bulk update or delete by condition).
func feedRows(tx *gorm.DB) []map[string]string {
	rv := tx.Statement.ReflectValue
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	var elems []reflect.Value
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elems = append(elems, reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		elems = append(elems, rv)
	default:
		return nil
	}
	if len(elems) == 0 {
		return nil
	}

	pk := tx.Statement.Schema.PrioritizedPrimaryField
	out := make([]map[string]string, 0, len(elems))
	for _, elem := range elems {
		if pk != nil {
			if _, zero := pk.ValueOf(tx.Statement.Context, elem); zero {
				return nil
			}
		}
		row, ok := elem.Interface().(models.FeedRow)
		if !ok {
			return nil
		}
		out = append(out, row.FeedKeys())
	}
	return out
}
