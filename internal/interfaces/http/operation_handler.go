package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
)

// OperationHandler maneja el ciclo de vida operativo de tareas: la superficie
// que usa el operario de piso (protegida, cualquier rol autenticado).
type OperationHandler struct {
	uc *workflow.OperationUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *workflow.OperationUseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar una operación asignada
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartOperationRequest  true  "task_id, chariot_id opcional"
// @Success      200   {object}  dto.StartOperationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/start [post]
func (h *OperationHandler) Start(c *fiber.Ctx) error {
	var in dto.StartOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.StartOperation(c.Context(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ExecuteLine godoc
// @Summary      Ejecutar una línea escaneada
// @Description  Valida el código escaneado contra el producto esperado y registra
//
//	los movimientos de stock según el tipo de tarea.
//
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExecuteLineRequest  true  "task_id, line_number, barcode, quantity"
// @Success      200   {object}  dto.ExecuteLineResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/execute-line [post]
func (h *OperationHandler) ExecuteLine(c *fiber.Ctx) error {
	var in dto.ExecuteLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.ExecuteLine(c.Context(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ReportIssue godoc
// @Summary      Reportar una incidencia
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReportIssueRequest  true  "task_id, product_id, issue_type"
// @Success      201   {object}  dto.ReportIssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations/report-issue [post]
func (h *OperationHandler) ReportIssue(c *fiber.Ctx) error {
	var in dto.ReportIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.ReportIssue(GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Complete godoc
// @Summary      Cerrar una operación (COMPLETED o FAILED)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.CompleteOperationRequest  true  "status, notes opcional"
// @Success      200   {object}  dto.CompleteOperationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/complete [post]
func (h *OperationHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CompleteOperation(GetUsername(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// MyTasks godoc
// @Summary      Bandeja de tareas del operario autenticado
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200  {array}   dto.TaskCard
// @Router       /api/operations/my-tasks [get]
func (h *OperationHandler) MyTasks(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	cards, err := h.uc.GetMyTasks(GetUsername(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cards)
}

// TaskDetails godoc
// @Summary      Detalle de una tarea asignada, con líneas resueltas
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.TaskDetails
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/tasks/{id} [get]
func (h *OperationHandler) TaskDetails(c *fiber.Ctx) error {
	details, err := h.uc.GetTaskDetails(GetUsername(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}
