// The gosat SIM Application Toolkit mediator
//
// gosat sits between a modem's SIM toolkit engine and the applications on
// the terminal. Proactive commands from the SIM are checked, remembered
// under a command id, and announced to the UI. The user's answer, the
// outcome reported by the dialer, browser, SMS or data stack, or the news
// that the UI was shown at all, is turned into exactly one terminal response
// for the SIM.
//
// Features
//
// - Every ETSI TS 102.223 command a handset UI deals with, from DISPLAY TEXT
// to the BIP channel commands
//
// - Event download gating (SET UP EVENT LIST) and main menu selection
//
// - Distributed message system (run the UI, the modem and the mediator over
// MQTT)
//
// - AT command transport for modems with +CUSAT support
//
// - SEND SHORT MESSAGE over a GSM modem
//
// Packages
//
// - sat: the mediation core
//
// - services/toolkit: the core bound to the message bus
//
// - services/modem, services/sms: executors and SIM transport
package gosat
