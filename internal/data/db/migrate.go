package db

import (
	"fmt"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&types.User{},
		&types.OperatorProfile{},

		// Catalogs
		&types.Product{},
		&types.RawMaterial{},
		&types.Scale{},

		// Bill of materials
		&types.Structure{},
		&types.StructureItem{},

		// Orders + weighing ledger
		&types.ProductionOrder{},
		&types.OrderItem{},
		&types.Weighing{},
	)
}

// EnsureProductionConstraints adds the foreign keys GORM migration skips
// (DisableForeignKeyConstraintWhenMigrating is on). Catalog references are
// RESTRICT so a referenced product or raw material can never be deleted out
// from under a structure, order or weighing; order items and structure items
// cascade with their owner, and weighings cascade with their order item so a
// forced regeneration wipes the line's ledger together with the line.
func EnsureProductionConstraints(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"fk_operator_profile_user", `
			ALTER TABLE operator_profile
			ADD CONSTRAINT fk_operator_profile_user
			FOREIGN KEY (user_id) REFERENCES app_user(id)
			ON DELETE CASCADE`},
		{"fk_structure_product", `
			ALTER TABLE structure
			ADD CONSTRAINT fk_structure_product
			FOREIGN KEY (product_id) REFERENCES product(id)
			ON DELETE RESTRICT`},
		{"fk_structure_item_structure", `
			ALTER TABLE structure_item
			ADD CONSTRAINT fk_structure_item_structure
			FOREIGN KEY (structure_id) REFERENCES structure(id)
			ON DELETE CASCADE`},
		{"fk_structure_item_raw_material", `
			ALTER TABLE structure_item
			ADD CONSTRAINT fk_structure_item_raw_material
			FOREIGN KEY (raw_material_id) REFERENCES raw_material(id)
			ON DELETE RESTRICT`},
		{"fk_production_order_product", `
			ALTER TABLE production_order
			ADD CONSTRAINT fk_production_order_product
			FOREIGN KEY (product_id) REFERENCES product(id)
			ON DELETE RESTRICT`},
		{"fk_production_order_structure", `
			ALTER TABLE production_order
			ADD CONSTRAINT fk_production_order_structure
			FOREIGN KEY (structure_id) REFERENCES structure(id)
			ON DELETE RESTRICT`},
		{"fk_order_item_order", `
			ALTER TABLE order_item
			ADD CONSTRAINT fk_order_item_order
			FOREIGN KEY (order_id) REFERENCES production_order(id)
			ON DELETE CASCADE`},
		{"fk_order_item_raw_material", `
			ALTER TABLE order_item
			ADD CONSTRAINT fk_order_item_raw_material
			FOREIGN KEY (raw_material_id) REFERENCES raw_material(id)
			ON DELETE RESTRICT`},
		{"fk_weighing_order", `
			ALTER TABLE weighing
			ADD CONSTRAINT fk_weighing_order
			FOREIGN KEY (order_id) REFERENCES production_order(id)
			ON DELETE RESTRICT`},
		{"fk_weighing_item", `
			ALTER TABLE weighing
			ADD CONSTRAINT fk_weighing_item
			FOREIGN KEY (item_id) REFERENCES order_item(id)
			ON DELETE CASCADE`},
		{"fk_weighing_scale", `
			ALTER TABLE weighing
			ADD CONSTRAINT fk_weighing_scale
			FOREIGN KEY (scale_id) REFERENCES scale(id)
			ON DELETE SET NULL`},
	}
	for _, st := range stmts {
		var exists bool
		if err := db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, st.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("check constraint %s: %w", st.name, err)
		}
		if exists {
			continue
		}
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", st.name, err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureProductionConstraints(s.db); err != nil {
		s.log.Error("Constraint migration failed", "error", err)
		return err
	}
	return nil
}
