package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/domain/session"
)

const (
	conciergeEmptyAnswer = "Tudo aqui é delicioso! Que tal experimentar a Clássica Americana? 🍔"
	conciergeErrorAnswer = "Meu faro de hambúrguer está a mil, mas não consigo falar agora! Vai no instinto (ou pede a Clássica Americana). 🍔"
)

// テキスト生成の約束
type Recommender interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ConciergeOutput struct {
	Seq    uint64 `json:"seq"`
	Query  string `json:"query,omitempty"`
	Answer string `json:"answer"`
}

type ConciergeUsecase struct {
	runner    *SessionRunner
	catalog   CatalogReader
	rec       Recommender // nilなら常に代替文
	clock     Clock
	storeName string
	log       *zap.Logger
}

// DI
func NewConciergeUsecase(
	runner *SessionRunner,
	catalog CatalogReader,
	rec Recommender,
	clock Clock,
	storeName string,
	log *zap.Logger,
) *ConciergeUsecase {
	return &ConciergeUsecase{
		runner:    runner,
		catalog:   catalog,
		rec:       rec,
		clock:     clock,
		storeName: storeName,
		log:       log,
	}
}

// Askは問い合わせ番号を払い出してから生成を呼ぶ。
// 戻ってきた時点で新しい問い合わせがあれば、この回答は捨てる(409)
func (u *ConciergeUsecase) Ask(ctx context.Context, id string, query string) (ConciergeOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ConciergeOutput{}, NewHTTPError(http.StatusBadRequest, "query required")
	}
	if len(query) > 500 {
		return ConciergeOutput{}, NewHTTPError(http.StatusBadRequest, "query too long")
	}

	var seq uint64
	if _, err := u.runner.Update(ctx, id, func(s *session.Session) error {
		seq = s.NextConciergeSeq(query)
		return nil
	}); err != nil {
		return ConciergeOutput{}, err
	}

	//生成中はロックを持たない
	answer := u.recommend(ctx, query)

	accepted := false
	if _, err := u.runner.Update(ctx, id, func(s *session.Session) error {
		accepted = s.AcceptAnswer(seq, answer, u.clock.Now())
		return nil
	}); err != nil {
		return ConciergeOutput{}, err
	}
	if !accepted {
		u.log.Debug("stale concierge answer discarded", zap.String("session_id", id), zap.Uint64("seq", seq))
		return ConciergeOutput{}, NewHTTPError(http.StatusConflict, "stale")
	}

	return ConciergeOutput{Seq: seq, Query: query, Answer: answer}, nil
}

// Latestは最後に受け付けた回答
func (u *ConciergeUsecase) Latest(ctx context.Context, id string) (ConciergeOutput, error) {
	s, err := u.runner.Load(ctx, id)
	if err != nil {
		return ConciergeOutput{}, err
	}
	c := s.Concierge
	return ConciergeOutput{Seq: c.AnswerSeq, Query: c.Query, Answer: c.Answer}, nil
}

func (u *ConciergeUsecase) recommend(ctx context.Context, query string) string {
	if u.rec == nil {
		return conciergeEmptyAnswer
	}

	text, err := u.rec.Generate(ctx, BuildConciergePrompt(u.storeName, query, u.catalog.Products()))
	if err != nil {
		u.log.Warn("concierge generation failed", zap.Error(err))
		return conciergeErrorAnswer
	}
	if strings.TrimSpace(text) == "" {
		return conciergeEmptyAnswer
	}
	return strings.TrimSpace(text)
}

// BuildConciergePromptは質問とメニュー全体を埋め込んだプロンプト
func BuildConciergePrompt(storeName string, query string, products []model.Product) string {
	var menu strings.Builder
	for _, p := range products {
		fmt.Fprintf(&menu, "- %s: %s (Tags: %s)\n", p.Name, p.Description, strings.Join(p.Tags, ", "))
	}

	return fmt.Sprintf(`Você é o "Concierge de Hambúrguer" simpático da %s, uma hamburgueria artesanal.
O cliente pergunta: "%s"

Aqui está o nosso cardápio:
%s
Recomende 1 ou 2 itens específicos do cardápio que combinem com o pedido.
Tom descontraído, curto e divertido, como um amigo mandando mensagem.
Nada formal. Use emojis. No máximo 50 palavras. RESPONDA EM PORTUGUÊS.`,
		storeName, query, menu.String())
}
