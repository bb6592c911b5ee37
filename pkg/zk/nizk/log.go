package nizk

import (
	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/cmp-zk/pkg/pedersen"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	pedersen.Logger = Logger
}
