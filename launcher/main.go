package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"time"
)

func main() {
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        TerraVista Launcher           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	// 1. Iniciar o servidor em uma nova janela (necessário para ver os logs)
	fmt.Println("[1/2] Iniciando Servidor...")
	serverCmd := exec.Command("cmd", "/c", "start", "TerraVista SERVER", "server.exe")
	serverCmd.Dir = "servidor"
	if err := serverCmd.Run(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor abrir a porta e carregar o mundo
	fmt.Println("Aguardando inicialização do servidor...")
	time.Sleep(3 * time.Second)

	// 3. Iniciar o visor silenciosamente (app GUI não precisa de CMD)
	fmt.Println("[2/2] Abrindo Visor...")

	absVisorPath, err := filepath.Abs("visor/visor.exe")
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do visor: %v", err)
	}

	visorCmd := exec.Command(absVisorPath)
	visorCmd.Dir = "visor"

	if err := visorCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: Não foi possível executar o visor em %s\n", absVisorPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! TerraVista foi iniciado.")
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}
