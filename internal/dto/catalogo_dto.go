package dto

type VendedorRequest struct {
	Nombre string `json:"nombre" binding:"required"`
	Email  string `json:"email" binding:"required" validate:"email"`
	Estado string `json:"estado"`
}

type VendedorResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Estado string `json:"estado"`
}

type TecnicoRequest struct {
	Nombre string `json:"nombre" binding:"required"`
	Email  string `json:"email" binding:"required" validate:"email"`
	Estado string `json:"estado"`
}

type TecnicoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Estado string `json:"estado"`
}

type ServicioRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Categoria   string  `json:"categoria"`
	Descripcion *string `json:"descripcion"`
}

type ServicioResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Categoria   string  `json:"categoria"`
	Descripcion *string `json:"descripcion"`
}
