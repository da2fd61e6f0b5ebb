package session

import (
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/checkout"
	"storefront/internal/domain/view"
)

// 買い物客1人分の状態。カート・画面・チェックアウトを1つずつ持つ
type Session struct {
	ID        string        `json:"id"`
	Cart      cart.Cart     `json:"cart"`
	View      view.Router   `json:"view"`
	Checkout  checkout.Flow `json:"checkout"`
	Concierge Concierge     `json:"concierge"`
	Last      *Submission   `json:"last_submission,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// おすすめ問い合わせ。Seqは問い合わせごとに増える
type Concierge struct {
	Seq        uint64    `json:"seq"`
	Query      string    `json:"query,omitempty"`
	AnswerSeq  uint64    `json:"answer_seq"`
	Answer     string    `json:"answer,omitempty"`
	AnsweredAt time.Time `json:"answered_at,omitempty"`
}

// 直近に送信した注文リンク（QRコード用）
type Submission struct {
	URL         string    `json:"url"`
	Message     string    `json:"message"`
	OrderNumber *int64    `json:"order_number,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func New(id string, paymentStep bool, now time.Time) Session {
	return Session{
		ID:        id,
		View:      view.Router{State: view.StateHome},
		Checkout:  checkout.NewFlow(paymentStep),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Settleは画面の保留遷移を確定する。
// CARTを離れていたらチェックアウト入力を捨てる
func (s *Session) Settle(now time.Time) {
	s.View.Settle(now)
	if s.View.State != view.StateCart && s.View.Pending == nil {
		s.Checkout.Reset()
	}
}

// NextConciergeSeqは新しい問い合わせ番号を払い出す
func (s *Session) NextConciergeSeq(query string) uint64 {
	s.Concierge.Seq++
	s.Concierge.Query = query
	return s.Concierge.Seq
}

// AcceptAnswerは最新の問い合わせへの回答だけを受け付ける
func (s *Session) AcceptAnswer(seq uint64, answer string, now time.Time) bool {
	if seq != s.Concierge.Seq {
		return false
	}
	s.Concierge.AnswerSeq = seq
	s.Concierge.Answer = answer
	s.Concierge.AnsweredAt = now
	return true
}
