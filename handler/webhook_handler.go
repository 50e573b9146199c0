package handler

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/tieubaoca/line-assistant-be/service"
	"github.com/tieubaoca/line-assistant-be/types"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	bot        *linebot.Client
	dispatcher service.DispatchService
}

func NewWebhookHandler(bot *linebot.Client, dispatcher service.DispatchService) *WebhookHandler {
	return &WebhookHandler{
		bot:        bot,
		dispatcher: dispatcher,
	}
}

// HandleWebhook processes one LINE callback. Events fan out in parallel and
// are joined before responding; any event whose generation fails still gets
// an (apologetic) reply, so LINE always sees a 200 on a valid signature.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	events, err := h.bot.ParseRequest(c.Request)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "invalid signature",
			})
			return
		}
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "invalid request body",
		})
		return
	}

	ctx := c.Request.Context()

	var wg sync.WaitGroup
	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		textMessage, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(event *linebot.Event, text string) {
			defer wg.Done()

			userID := event.Source.UserID
			reply, err := h.dispatcher.Handle(ctx, userID, text)
			if err != nil {
				zap.L().Error("dispatch failed",
					zap.String("line_user_id", userID),
					zap.Error(err))
				return
			}
			if reply == nil {
				// Human mode: a person answers, the bot stays quiet.
				return
			}

			if _, err := h.bot.ReplyMessage(
				event.ReplyToken,
				linebot.NewTextMessage(reply.Text),
			).WithContext(ctx).Do(); err != nil {
				// Never propagate: webhook verification sends dummy reply
				// tokens and LINE still expects a 200.
				zap.L().Warn("reply delivery failed",
					zap.String("line_user_id", userID),
					zap.Error(err))
				return
			}

			zap.L().Info("replied",
				zap.String("line_user_id", userID),
				zap.String("provider", reply.Provider),
				zap.String("model", reply.Model))
		}(event, textMessage.Text)
	}
	wg.Wait()

	c.JSON(http.StatusOK, types.DataResponse{Status: true})
}
