package model

// Explicit table names: GORM's default pluralizer mangles Spanish nouns
// ("vendedors", "objetivo_cualitativos"), so every model declares its table.
func (Tenant) TableName() string                       { return "tenants" }
func (Vendedor) TableName() string                     { return "vendedores" }
func (Tecnico) TableName() string                      { return "tecnicos" }
func (Cliente) TableName() string                      { return "clientes" }
func (Servicio) TableName() string                     { return "servicios" }
func (ClienteServicio) TableName() string              { return "cliente_servicios" }
func (ObjetivoCualitativo) TableName() string          { return "objetivos_cualitativos" }
func (ObjetivoCuantitativo) TableName() string         { return "objetivos_cuantitativos" }
func (VendedorObjetivo) TableName() string             { return "vendedor_objetivos" }
func (VendedorObjetivoCuantitativo) TableName() string { return "vendedor_objetivos_cuantitativos" }
func (ObjetivoTecnico) TableName() string              { return "objetivos_tecnicos" }
func (Usuario) TableName() string                      { return "usuarios" }
