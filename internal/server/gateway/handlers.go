package gateway

import (
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
	"github.com/dmitrijs2005/finlink/internal/server/enrollments"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type enrollmentRequest struct {
	Enrollment *models.Enrollment `json:"enrollment"`
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// relayHandler turns the HTTP request into a proxy event and writes the
// relay's answer back unchanged.
func relayHandler(r Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The event outlives the handler, so every value taken from the
		// fasthttp request is copied.
		path := utils.CopyString(c.Path())
		req := events.APIGatewayProxyRequest{
			HTTPMethod: utils.CopyString(c.Method()),
			Path:       path,
			Body:       string(c.Body()),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: utils.CopyString(requestID(c)),
				Path:      path,
			},
		}

		headers := c.GetReqHeaders()
		req.MultiValueHeaders = make(map[string][]string, len(headers))
		req.Headers = make(map[string]string, len(headers))
		for k, vs := range headers {
			key := utils.CopyString(k)
			values := make([]string, len(vs))
			for i, v := range vs {
				values[i] = utils.CopyString(v)
			}
			req.MultiValueHeaders[key] = values
			if len(values) > 0 {
				req.Headers[key] = values[0]
			}
		}

		resp, err := r.Handle(c.UserContext(), req)
		if err != nil {
			return err
		}

		for k, v := range resp.Headers {
			c.Set(k, v)
		}
		if resp.StatusCode == 0 {
			resp.StatusCode = fiber.StatusOK
		}
		return c.Status(resp.StatusCode).SendString(resp.Body)
	}
}

func processEnrollment(p enrollments.Processor, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body enrollmentRequest
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "Invalid request body", Message: err.Error()})
		}
		if body.Enrollment == nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "Enrollment is required"})
		}

		receipt, err := p.Process(c.UserContext(), body.Enrollment)
		if err != nil {
			if errors.Is(err, common.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "Invalid enrollment", Message: err.Error()})
			}
			logger.Error(c.UserContext(), "process enrollment failed", "request_id", requestID(c), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "Failed to process enrollment", Message: err.Error()})
		}

		return c.JSON(receipt)
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}
