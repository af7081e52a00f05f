package configs

import "go.uber.org/zap"

func NewLogger(e ENV) (*zap.Logger, error) {
	if e.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
