package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/notification"
	notificationerrors "go-leave/internal/notification/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeNotificationService struct {
	getAllFn        func(ctx context.Context, userID string, unreadOnly bool, page, limit int) (notification.ListResult, error)
	markAsReadFn    func(ctx context.Context, userID, id string) (notification.NotificationResponse, error)
	markAllAsReadFn func(ctx context.Context, userID string) (int64, error)
}

func (f *fakeNotificationService) GetAll(ctx context.Context, userID string, unreadOnly bool, page, limit int) (notification.ListResult, error) {
	return f.getAllFn(ctx, userID, unreadOnly, page, limit)
}
func (f *fakeNotificationService) MarkAsRead(ctx context.Context, userID, id string) (notification.NotificationResponse, error) {
	return f.markAsReadFn(ctx, userID, id)
}
func (f *fakeNotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return f.markAllAsReadFn(ctx, userID)
}

func TestNotificationHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.NewString()

	svc := &fakeNotificationService{
		getAllFn: func(ctx context.Context, uid string, unreadOnly bool, page, limit int) (notification.ListResult, error) {
			assert.Equal(t, userID, uid)
			assert.True(t, unreadOnly)
			assert.Equal(t, 1, page)
			assert.Equal(t, 20, limit)
			return notification.ListResult{
				Notifications: []notification.NotificationResponse{{ID: "n-1", Type: "leave_applied"}},
				UnreadCount:   4,
				Total:         1,
			}, nil
		},
	}
	h := notification.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications?unreadOnly=true", nil)
	c.Set("user_id", userID)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Success)
	var data struct {
		Notifications []notification.NotificationResponse `json:"notifications"`
		UnreadCount   int64                               `json:"unreadCount"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(4), data.UnreadCount)
	assert.Len(t, data.Notifications, 1)
	assert.Equal(t, float64(1), env.Meta["total"])
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeNotificationService{
			markAsReadFn: func(ctx context.Context, userID, id string) (notification.NotificationResponse, error) {
				return notification.NotificationResponse{}, notificationerrors.ErrNotNotificationOwner
			},
		}
		h := notification.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/notifications/x/read", nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Set("user_id", uuid.NewString())

		h.MarkAsRead(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		svc := &fakeNotificationService{
			markAsReadFn: func(ctx context.Context, userID, nid string) (notification.NotificationResponse, error) {
				assert.Equal(t, id, nid)
				return notification.NotificationResponse{ID: nid, IsRead: true}, nil
			},
		}
		h := notification.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/notifications/"+id+"/read", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("user_id", uuid.NewString())

		h.MarkAsRead(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestNotificationHandler_MarkAllAsRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeNotificationService{
		markAllAsReadFn: func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		},
	}
	h := notification.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/notifications/mark-all-read", nil)
	c.Set("user_id", uuid.NewString())

	h.MarkAllAsRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.JSONEq(t, `{"updated":2}`, string(env.Data))
}
