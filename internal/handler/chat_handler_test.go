package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"homerent/internal/middleware"
	"homerent/internal/model"
	"homerent/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createChat(t *testing.T, db *gorm.DB, interested *model.User, houseID uint) *model.Chat {
	t.Helper()

	body := `{"house_id": ` + strconv.Itoa(int(houseID)) + `}`
	c, rec := testutil.JSONContext(http.MethodPost, "/chat", body)
	middleware.SetCurrentUser(c, interested)
	require.NoError(t, CreateChat(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var chat model.Chat
	require.NoError(t, db.Where("house_id = ? AND interested_id = ?", houseID, interested.ID).Last(&chat).Error)
	return &chat
}

func sendText(t *testing.T, db *gorm.DB, sender *model.User, chatID uint, content string) *model.Message {
	t.Helper()

	body := `{"chat_id": ` + strconv.Itoa(int(chatID)) + `, "content": "` + content + `"}`
	c, rec := testutil.JSONContext(http.MethodPost, "/chat/message", body)
	middleware.SetCurrentUser(c, sender)
	require.NoError(t, SendMessage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var message model.Message
	require.NoError(t, db.Where("chat_id = ?", chatID).Last(&message).Error)
	return &message
}

func TestCreateChatOwnHouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	body := `{"house_id": ` + strconv.Itoa(int(house.ID)) + `}`
	c, _ := testutil.JSONContext(http.MethodPost, "/chat", body)
	middleware.SetCurrentUser(c, owner)
	requireAppError(t, CreateChat(c), http.StatusForbidden)
}

func TestCreateChatDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	createChat(t, db, client, house.ID)

	body := `{"house_id": ` + strconv.Itoa(int(house.ID)) + `}`
	c, _ := testutil.JSONContext(http.MethodPost, "/chat", body)
	middleware.SetCurrentUser(c, client)
	requireAppError(t, CreateChat(c), http.StatusBadRequest)
}

func TestSendMessageNonParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	other := testutil.CreateUser(t, db, "Eve", "eve@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	chat := createChat(t, db, client, house.ID)

	body := `{"chat_id": ` + strconv.Itoa(int(chat.ID)) + `, "content": "hello"}`
	c, _ := testutil.JSONContext(http.MethodPost, "/chat/message", body)
	middleware.SetCurrentUser(c, other)
	requireAppError(t, SendMessage(c), http.StatusForbidden)
}

func TestChatConversation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	chat := createChat(t, db, client, house.ID)
	sendText(t, db, client, chat.ID, "is the house still available?")
	time.Sleep(time.Millisecond)
	sendText(t, db, owner, chat.ID, "yes, want to visit?")

	c, rec := testutil.JSONContext(http.MethodGet, "/chat/1/messages", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(chat.ID)))
	middleware.SetCurrentUser(c, owner)
	require.NoError(t, GetChatMessages(c))

	var page struct {
		Content       []messageResponse `json:"content"`
		TotalElements int64             `json:"total_elements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, "bob@example.com", page.Content[0].Sender)
	assert.Equal(t, "ana@example.com", page.Content[1].Sender)
}

func TestGetChatMessagesNonParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	other := testutil.CreateUser(t, db, "Eve", "eve@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	chat := createChat(t, db, client, house.ID)

	c, _ := testutil.JSONContext(http.MethodGet, "/chat/1/messages", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(chat.ID)))
	middleware.SetCurrentUser(c, other)
	requireAppError(t, GetChatMessages(c), http.StatusForbidden)
}

func TestMarkMessageRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	chat := createChat(t, db, client, house.ID)
	message := sendText(t, db, client, chat.ID, "hello")

	// The sender cannot mark their own message.
	c, _ := testutil.JSONContext(http.MethodPut, "/chat/message/1/read", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(message.ID)))
	middleware.SetCurrentUser(c, client)
	requireAppError(t, MarkMessageRead(c), http.StatusForbidden)

	// The recipient can.
	c, rec := testutil.JSONContext(http.MethodPut, "/chat/message/1/read", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(message.ID)))
	middleware.SetCurrentUser(c, owner)
	require.NoError(t, MarkMessageRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var fresh model.Message
	require.NoError(t, db.First(&fresh, message.ID).Error)
	assert.True(t, fresh.IsRead)
}

func TestListChats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	outsider := testutil.CreateUser(t, db, "Eve", "eve@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	createChat(t, db, client, house.ID)

	c, rec := testutil.JSONContext(http.MethodGet, "/chat", "")
	middleware.SetCurrentUser(c, owner)
	require.NoError(t, ListChats(c))

	var chats []chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "bob@example.com", chats[0].Interested)

	c, rec = testutil.JSONContext(http.MethodGet, "/chat", "")
	middleware.SetCurrentUser(c, outsider)
	require.NoError(t, ListChats(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	assert.Empty(t, chats)
}
