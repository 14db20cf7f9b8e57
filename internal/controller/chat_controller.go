package controller

import (
	"dr-vain-be/internal/dto"
	"dr-vain-be/internal/pkg/serverutils"
	"dr-vain-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetArchive(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Get("archive", c.GetArchive)
	h.Post("", c.StartSession)
	h.Delete(":id", c.EndSession)
	h.Post(":id/chat", c.SendChat)
	h.Get(":id/history", c.GetHistory)
}

func (c *chatController) StartSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.StartSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *chatController) EndSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	if err := c.chatService.EndSession(ctx.Context(), sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end session", nil))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	res, err := c.chatService.GetHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatController) GetArchive(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetArchive(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get archive", res))
}
