package logrusx

import "github.com/sirupsen/logrus"

type contextValueHook struct {
	ctxKey   interface{}
	fieldKey string
}

var _ logrus.Hook = (*contextValueHook)(nil)

// NewContextValueHook copies the value stored under ctxKey in the entry context into the field fieldKey.
func NewContextValueHook(ctxKey interface{}, fieldKey string) *contextValueHook {
	return &contextValueHook{
		ctxKey:   ctxKey,
		fieldKey: fieldKey,
	}
}

func (h *contextValueHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *contextValueHook) Fire(entry *logrus.Entry) error {
	defer func() {
		// Nullify panic to prevent having this hook break a submission
		recover() //nolint:errcheck,gosec
	}()
	if entry == nil || entry.Context == nil || entry.Data == nil {
		return nil
	}
	v := entry.Context.Value(h.ctxKey)
	if v == nil {
		return nil
	}
	entry.Data[h.fieldKey] = v

	return nil
}
