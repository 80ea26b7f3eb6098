package notification

type NotificationResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	LeaveRequestID *string `json:"leaveRequestId,omitempty"`
	IsRead         bool    `json:"isRead"`
	CreatedAt      string  `json:"createdAt"`
}

type ListResult struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Total         int64                  `json:"-"`
}
