package logging

import "log"

func Infof(msg string, args ...interface{}) {
	log.Printf("[INFO] "+msg, args...)
}

func Warnf(msg string, args ...interface{}) {
	log.Printf("[WARN] "+msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
}

func Debugf(msg string, args ...interface{}) {
	log.Printf("[DEBUG] "+msg, args...)
}
