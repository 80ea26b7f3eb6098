package notification_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/notification"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNotificationRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Repository Suite")
}

var _ = ginkgo.Describe("NotificationRepository", func() {
	var (
		ctx   context.Context
		repo  notification.Repository
		owner uuid.UUID
		other uuid.UUID
		base  time.Time
	)

	item := func(userID uuid.UUID, minutes int, read bool) notification.Notification {
		return notification.Notification{
			UserID:    userID,
			Type:      notification.TypeLeaveApproved,
			Message:   "Your sick leave was approved",
			IsRead:    read,
			CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
		}
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		owner = uuid.New()
		other = uuid.New()
		base = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		sqlDB, err := db.DB()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		gomega.Expect(db.AutoMigrate(&notification.Notification{})).To(gomega.Succeed())
		repo = notification.NewRepository(db)

		gomega.Expect(repo.CreateBatch(ctx, []notification.Notification{
			item(owner, 0, false),
			item(owner, 1, true),
			item(owner, 2, false),
			item(other, 3, false),
		})).To(gomega.Succeed())
	})

	ginkgo.Describe("CreateBatch", func() {
		ginkgo.It("assigns ids to every row", func() {
			items, err := repo.FindByUser(ctx, owner.String(), false, 10, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(items).To(gomega.HaveLen(3))
			for _, n := range items {
				gomega.Expect(n.ID).ToNot(gomega.Equal(uuid.Nil))
			}
		})

		ginkgo.It("accepts an empty batch", func() {
			gomega.Expect(repo.CreateBatch(ctx, nil)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("FindByUser", func() {
		ginkgo.It("returns newest first", func() {
			items, err := repo.FindByUser(ctx, owner.String(), false, 10, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(items[0].CreatedAt.Equal(base.Add(2 * time.Minute))).To(gomega.BeTrue())
			gomega.Expect(items[2].CreatedAt.Equal(base)).To(gomega.BeTrue())
		})

		ginkgo.It("filters unread only", func() {
			items, err := repo.FindByUser(ctx, owner.String(), true, 10, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(items).To(gomega.HaveLen(2))
			for _, n := range items {
				gomega.Expect(n.IsRead).To(gomega.BeFalse())
			}
		})

		ginkgo.It("pages with limit and offset", func() {
			items, err := repo.FindByUser(ctx, owner.String(), false, 1, 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(items).To(gomega.HaveLen(1))
			gomega.Expect(items[0].IsRead).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("counts", func() {
		ginkgo.It("counts all and unread per user", func() {
			total, err := repo.CountByUser(ctx, owner.String(), false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(3)))

			unread, err := repo.CountUnread(ctx, owner.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(unread).To(gomega.Equal(int64(2)))
		})
	})

	ginkgo.Describe("MarkRead", func() {
		ginkgo.It("marks a single notification", func() {
			items, err := repo.FindByUser(ctx, owner.String(), true, 1, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(repo.MarkRead(ctx, items[0].ID.String())).To(gomega.Succeed())

			got, err := repo.FindByID(ctx, items[0].ID.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(got.IsRead).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("MarkAllRead", func() {
		ginkgo.It("only touches the caller's unread rows", func() {
			n, err := repo.MarkAllRead(ctx, owner.String())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(n).To(gomega.Equal(int64(2)))

			unread, err := repo.CountUnread(ctx, owner.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(unread).To(gomega.BeZero())

			otherUnread, err := repo.CountUnread(ctx, other.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(otherUnread).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("reports zero when nothing is unread", func() {
			_, err := repo.MarkAllRead(ctx, owner.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			n, err := repo.MarkAllRead(ctx, owner.String())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(n).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("FindByID", func() {
		ginkgo.It("returns not found for an unknown id", func() {
			_, err := repo.FindByID(ctx, uuid.NewString())

			gomega.Expect(err).To(gomega.MatchError(gorm.ErrRecordNotFound))
		})
	})
})
