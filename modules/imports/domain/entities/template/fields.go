package template

// Field names shared between the shipped templates and the commit step. The
// committer reads validated values by these names; templates may carry extra
// fields beyond them, which are validated but not persisted.
const (
	FieldNumber     = "number"
	FieldAmount     = "amount"
	FieldSignedDate = "signed_date"
	FieldGroup      = "group"
	FieldSalesPoint = "sales_point"
	FieldMatricula  = "matricula"
	FieldHolder     = "holder"
	FieldOwner      = "owner"
	FieldFullName   = "full_name"
)
