// Package sms sends short text messages to phone numbers.
//
// Twilio is the only provider; callers depend on the SMS interface.
package sms
