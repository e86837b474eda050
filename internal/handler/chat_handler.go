package handler

import (
	"net/http"
	"strconv"
	"time"

	"homerent/internal/apperror"
	"homerent/internal/middleware"
	"homerent/internal/model"
	"homerent/pkg/database"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type chatResponse struct {
	ID         uint      `json:"id"`
	HouseID    uint      `json:"house_id"`
	Owner      string    `json:"owner"`
	Interested string    `json:"interested"`
	StartedAt  time.Time `json:"started_at"`
}

type messageResponse struct {
	ID       uint      `json:"id"`
	ChatID   uint      `json:"chat_id"`
	Sender   string    `json:"sender"`
	Content  string    `json:"content,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read"`
}

func activeChatByID(id interface{}) (*model.Chat, error) {
	var chat model.Chat
	err := database.GetDB().Preload("Owner").Preload("Interested").
		Where("id = ? AND is_active = ?", id, true).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func isParticipant(chat *model.Chat, user *model.User) bool {
	return chat.OwnerID == user.ID || chat.InterestedID == user.ID
}

// CreateChat opens a conversation between the authenticated user and the
// owner of a house. One active chat per (house, interested) pair.
func CreateChat(c echo.Context) error {
	log := logger.FromContext(c)
	interested, _ := middleware.CurrentUser(c)

	var req struct {
		HouseID uint `json:"house_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.HouseID == 0 {
		return apperror.BadRequest("house_id is required")
	}

	db := database.GetDB()

	var house model.House
	err := db.Preload("Owner").Where("id = ? AND is_active = ?", req.HouseID, true).First(&house).Error
	if err != nil {
		return apperror.NotFound("house not found")
	}
	if house.OwnerID == interested.ID {
		return apperror.Forbidden("you cannot open a chat about your own house")
	}

	var count int64
	db.Model(&model.Chat{}).
		Where("house_id = ? AND interested_id = ? AND is_active = ?", house.ID, interested.ID, true).
		Count(&count)
	if count > 0 {
		return apperror.BadRequest("chat already exists")
	}

	chat := model.Chat{
		OwnerID:      house.OwnerID,
		Owner:        house.Owner,
		InterestedID: interested.ID,
		Interested:   *interested,
		HouseID:      house.ID,
		StartedAt:    time.Now(),
		IsActive:     true,
	}
	if err := db.Create(&chat).Error; err != nil {
		log.Error("Failed to create chat", zap.Error(err))
		return apperror.Internal("failed to create chat")
	}

	log.Info("Chat created", zap.Uint("chat_id", chat.ID), zap.Uint("house_id", house.ID))
	return c.JSON(http.StatusCreated, chatResponse{
		ID:         chat.ID,
		HouseID:    chat.HouseID,
		Owner:      chat.Owner.Email,
		Interested: chat.Interested.Email,
		StartedAt:  chat.StartedAt,
	})
}

// ListChats returns every active chat the authenticated user participates in.
func ListChats(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	var chats []model.Chat
	err := database.GetDB().Preload("Owner").Preload("Interested").
		Where("(owner_id = ? OR interested_id = ?) AND is_active = ?", user.ID, user.ID, true).
		Order("started_at DESC").
		Find(&chats).Error
	if err != nil {
		return apperror.Internal("failed to retrieve chats")
	}

	content := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		content = append(content, chatResponse{
			ID:         chat.ID,
			HouseID:    chat.HouseID,
			Owner:      chat.Owner.Email,
			Interested: chat.Interested.Email,
			StartedAt:  chat.StartedAt,
		})
	}
	return c.JSON(http.StatusOK, content)
}

// GetChatMessages returns a page of a chat's messages, oldest first.
// Participants only.
func GetChatMessages(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	page, size := pageParams(c, 20)

	chat, err := activeChatByID(c.Param("id"))
	if err != nil {
		return apperror.NotFound("chat not found")
	}
	if !isParticipant(chat, user) {
		return apperror.Forbidden("you are not part of this chat")
	}

	db := database.GetDB()
	query := db.Model(&model.Message{}).
		Where("chat_id = ? AND is_active = ?", chat.ID, true)

	var total int64
	query.Count(&total)

	var messages []model.Message
	if err := query.Preload("Sender").
		Order("sent_at ASC").
		Offset(page * size).
		Limit(size).
		Find(&messages).Error; err != nil {
		return apperror.Internal("failed to retrieve messages")
	}

	content := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		content = append(content, messageResponse{
			ID:       m.ID,
			ChatID:   m.ChatID,
			Sender:   m.Sender.Email,
			Content:  m.Content,
			ImageURL: m.ImageURL,
			SentAt:   m.SentAt,
			IsRead:   m.IsRead,
		})
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}

// SendMessage appends a text message to a chat the authenticated user
// participates in.
func SendMessage(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req struct {
		ChatID  uint   `json:"chat_id"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.ChatID == 0 || req.Content == "" {
		return apperror.BadRequest("chat_id and content are required")
	}

	chat, err := activeChatByID(req.ChatID)
	if err != nil {
		return apperror.NotFound("chat not found")
	}
	if !isParticipant(chat, user) {
		return apperror.Forbidden("you are not part of this chat")
	}

	message := model.Message{
		ChatID:   chat.ID,
		SenderID: user.ID,
		Sender:   *user,
		Content:  req.Content,
		SentAt:   time.Now(),
		IsRead:   false,
		IsActive: true,
	}
	if err := database.GetDB().Create(&message).Error; err != nil {
		log.Error("Failed to send message", zap.Error(err))
		return apperror.Internal("failed to send message")
	}

	prometheus.MessageCounter.Inc()
	return c.JSON(http.StatusCreated, messageResponse{
		ID:      message.ID,
		ChatID:  message.ChatID,
		Sender:  user.Email,
		Content: message.Content,
		SentAt:  message.SentAt,
	})
}

// SendImageMessage appends a message carrying one image attachment.
func SendImageMessage(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	chatID, err := strconv.ParseUint(c.FormValue("chat_id"), 10, 32)
	if err != nil {
		return apperror.BadRequest("chat_id is required")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return apperror.BadRequest("image file is required")
	}

	chat, err := activeChatByID(uint(chatID))
	if err != nil {
		return apperror.NotFound("chat not found")
	}
	if !isParticipant(chat, user) {
		return apperror.Forbidden("you are not part of this chat")
	}

	fileName, err := saveUploadedImage(file)
	if err != nil {
		log.Error("Failed to save chat image", zap.Error(err))
		return err
	}

	message := model.Message{
		ChatID:   chat.ID,
		SenderID: user.ID,
		Sender:   *user,
		Content:  c.FormValue("content"),
		ImageURL: "/images/" + fileName,
		SentAt:   time.Now(),
		IsRead:   false,
		IsActive: true,
	}
	if err := database.GetDB().Create(&message).Error; err != nil {
		return apperror.Internal("failed to send message")
	}

	prometheus.MessageCounter.Inc()
	return c.JSON(http.StatusCreated, messageResponse{
		ID:       message.ID,
		ChatID:   message.ChatID,
		Sender:   user.Email,
		Content:  message.Content,
		ImageURL: message.ImageURL,
		SentAt:   message.SentAt,
	})
}

// MarkMessageRead marks one message as read. Only the participant who did
// not send it may do so.
func MarkMessageRead(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	db := database.GetDB()

	var message model.Message
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&message).Error; err != nil {
		return apperror.NotFound("message not found")
	}

	chat, err := activeChatByID(message.ChatID)
	if err != nil {
		return apperror.NotFound("chat not found")
	}
	if !isParticipant(chat, user) || message.SenderID == user.ID {
		return apperror.Forbidden("only the recipient can mark a message as read")
	}

	message.IsRead = true
	if err := db.Save(&message).Error; err != nil {
		return apperror.Internal("failed to update message")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "message marked as read"})
}
