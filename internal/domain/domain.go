package domain

import (
	"github.com/ampolabs/batchweigh-backend/internal/domain/catalog"
	"github.com/ampolabs/batchweigh-backend/internal/domain/identity"
	"github.com/ampolabs/batchweigh-backend/internal/domain/production"
)

type Product = catalog.Product
type RawMaterial = catalog.RawMaterial
type Scale = catalog.Scale

type Structure = production.Structure
type StructureItem = production.StructureItem
type ProductionOrder = production.ProductionOrder
type OrderItem = production.OrderItem
type Weighing = production.Weighing
type OrderStatus = production.OrderStatus

const (
	OrderOpen       = production.OrderOpen
	OrderInProgress = production.OrderInProgress
	OrderCompleted  = production.OrderCompleted
	OrderCancelled  = production.OrderCancelled

	UnitGram = production.UnitGram

	ScaleConnEthernet = catalog.ScaleConnEthernet
	ScaleConnSerial   = catalog.ScaleConnSerial
	ScaleConnUSB      = catalog.ScaleConnUSB

	RoleOperator   = identity.RoleOperator
	RoleSupervisor = identity.RoleSupervisor
	RoleAdmin      = identity.RoleAdmin
)

var (
	KgToG        = production.KgToG
	TolerancePct = production.TolerancePct
)

type User = identity.User
type OperatorProfile = identity.OperatorProfile
