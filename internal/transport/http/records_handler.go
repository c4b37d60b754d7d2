package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"burnreg/internal/dataprocessing"
	apierrors "burnreg/internal/errors"
	"burnreg/internal/registry"
)

// RecordsHandler exposes the admission registry as a REST resource.
type RecordsHandler struct {
	store        *registry.Store
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewRecordsHandler creates a records handler over the given store.
func NewRecordsHandler(store *registry.Store, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RecordsHandler {
	return &RecordsHandler{
		store:        store,
		logger:       logger.With(slog.String("component", "records_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the records routes.
func (h *RecordsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListRecords)
	r.Post("/", h.CreateRecord)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.RecordCtx)
		r.Get("/", h.GetRecord)
		r.Put("/", h.UpdateRecord)
		r.Delete("/", h.DeleteRecord)
	})

	return r
}

// RecordCtx validates the identifier path parameter.
func (h *RecordsHandler) RecordCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Record identifier is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordRequest is the JSON payload for create and update. The identifier and
// the source columns are caller-supplied; derived fields are accepted as-is so
// a corrected record can keep its computed values.
type RecordRequest struct {
	ID        string   `json:"id" validate:"required,max=4"`
	Year      *int     `json:"year"`
	SerialID  *int     `json:"serial_id"`
	Processo  string   `json:"processo"`
	Nome      string   `json:"nome"`
	DataEnt   string   `json:"data_ent"`
	DataAlta  string   `json:"data_alta"`
	Destino   string   `json:"destino"`
	Sexo      string   `json:"sexo" validate:"omitempty,oneof=M F"`
	DataNasc  string   `json:"data_nasc"`
	DataQueim string   `json:"data_queim"`
	Origem    string   `json:"origem"`
	ASCQ      string   `json:"ASCQ"`
	Etiologia string   `json:"etiologia"`
	EnvVMI    string   `json:"env_VMI"`
	LesaoInal string   `json:"lesao_inal"`
	Idade     *int     `json:"idade"`
	DiasQueim *int     `json:"dias_queim"`
	BAUX      *float64 `json:"BAUX"`
}

// Bind implements render.Binder.
func (req *RecordRequest) Bind(r *http.Request) error {
	return nil
}

func (req *RecordRequest) toRecord() dataprocessing.CleanRecord {
	return dataprocessing.CleanRecord{
		ID:        req.ID,
		Year:      req.Year,
		SerialID:  req.SerialID,
		Processo:  req.Processo,
		Nome:      req.Nome,
		DataEnt:   req.DataEnt,
		DataAlta:  req.DataAlta,
		Destino:   req.Destino,
		Sexo:      req.Sexo,
		DataNasc:  req.DataNasc,
		DataQueim: req.DataQueim,
		Origem:    req.Origem,
		ASCQ:      req.ASCQ,
		Etiologia: req.Etiologia,
		EnvVMI:    req.EnvVMI,
		LesaoInal: req.LesaoInal,
		Idade:     req.Idade,
		DiasQueim: req.DiasQueim,
		BAUX:      req.BAUX,
	}
}

func (h *RecordsHandler) bindRecord(w http.ResponseWriter, r *http.Request) (*RecordRequest, bool) {
	req := &RecordRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if ok := errors.As(err, &verrs); ok && len(verrs) > 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(verrs[0].Field(), verrs[0].Tag()))
		} else {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return nil, false
	}
	return req, true
}

// ListRecords handles GET /api/records, optionally filtered by ?sexo=.
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	sexo := r.URL.Query().Get("sexo")

	records, err := h.store.List(r.Context(), sexo)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if records == nil {
		records = []dataprocessing.CleanRecord{}
	}

	render.JSON(w, r, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetRecord handles GET /api/records/{id}.
func (h *RecordsHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, record)
}

// CreateRecord handles POST /api/records.
func (h *RecordsHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	req, ok := h.bindRecord(w, r)
	if !ok {
		return
	}

	record := req.toRecord()
	if err := h.store.Create(r.Context(), record); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "record created", slog.String("id", record.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// UpdateRecord handles PUT /api/records/{id}. The path identifier wins over
// the payload identifier.
func (h *RecordsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, ok := h.bindRecord(w, r)
	if !ok {
		return
	}

	record := req.toRecord()
	if err := h.store.Update(r.Context(), id, record); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	record.ID = id

	h.logger.InfoContext(r.Context(), "record updated", slog.String("id", id))
	render.JSON(w, r, record)
}

// DeleteRecord handles DELETE /api/records/{id}.
func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "record deleted", slog.String("id", id))
	render.NoContent(w, r)
}
