package service

import "time"

// SetAccountIDGenerator подменяет генератор account_id в тестах
func SetAccountIDGenerator(s AccountService, gen func() (string, error)) {
	s.(*accountService).generateID = gen
}

// SetShortIDGenerator подменяет генератор short_id в тестах
func SetShortIDGenerator(s LinkService, gen func() (string, error)) {
	s.(*linkService).generateID = gen
}

func SetPurgeRetryDelay(p AnalyticsPurger, d time.Duration) {
	p.(*analyticsPurger).retryDelay = d
}

// Sequence генератор, по очереди отдающий ids
func Sequence(ids ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		id := ids[i%len(ids)]
		i++
		return id, nil
	}
}
