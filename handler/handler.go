package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
