// Package clients holds the outbound connections of the service: the
// remote commerce API, MongoDB, Redis and RabbitMQ.
package clients

import "github.com/sirupsen/logrus"

var log = logrus.StandardLogger()
